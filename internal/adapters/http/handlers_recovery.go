package http

import (
	"net/http"

	"github.com/maglieria/storefront/internal/application"
)

const resetAcknowledgement = "Se l'indirizzo è registrato riceverai un'email con il link per reimpostare la password"

// forgotPassword answers the same way whether or not the account exists.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "forgot_password", err)
		return
	}
	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeMappedError(r.Context(), w, "forgot_password", err)
		return
	}
	writeMessage(w, http.StatusOK, resetAcknowledgement)
}

func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req application.PasswordResetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "password_reset", err)
		return
	}
	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		writeMappedError(r.Context(), w, "password_reset", err)
		return
	}
	writeMessage(w, http.StatusOK, "Password aggiornata. Ora puoi accedere con la nuova password.")
}
