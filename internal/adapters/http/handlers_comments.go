package http

import (
	"net/http"

	"github.com/maglieria/storefront/internal/application"
)

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.service.ListComments(r.Context(), parseIntDefault(q.Get("page"), 1), parseIntDefault(q.Get("limit"), 20))
	if err != nil {
		writeMappedError(r.Context(), w, "list_comments", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req application.CommentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "add_comment", err)
		return
	}
	res, err := h.service.AddComment(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "add_comment", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}
