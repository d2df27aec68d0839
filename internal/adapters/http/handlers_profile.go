package http

import (
	"net/http"

	"github.com/maglieria/storefront/internal/application"
)

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	res, err := h.service.Me(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "me", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	q := r.URL.Query()
	res, err := h.service.MyOrders(r.Context(), claims, parseIntDefault(q.Get("page"), 1), parseIntDefault(q.Get("limit"), 20))
	if err != nil {
		writeMappedError(r.Context(), w, "my_orders", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "update_profile", err)
		return
	}
	var req application.UpdateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_profile", err)
		return
	}
	claims, _ := claimsFromContext(r.Context())
	res, err := h.service.UpdateProfile(r.Context(), claims, userID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) orderItems(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "order_items", err)
		return
	}
	claims, _ := claimsFromContext(r.Context())
	res, err := h.service.OrderItems(r.Context(), claims, orderID)
	if err != nil {
		writeMappedError(r.Context(), w, "order_items", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
