package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/maglieria/storefront/internal/application"
)

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	q := r.URL.Query()
	res, err := h.service.ListOrders(r.Context(), claims, application.OrderListQuery{
		Status: q.Get("status"),
		Page:   parseIntDefault(q.Get("page"), 1),
		Limit:  parseIntDefault(q.Get("limit"), 20),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_orders", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_update_order_status", err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_update_order_status", err)
		return
	}
	claims, _ := claimsFromContext(r.Context())
	res, err := h.service.UpdateOrderStatus(r.Context(), claims, orderID, req.Status)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_update_order_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_delete_order", err)
		return
	}
	claims, _ := claimsFromContext(r.Context())
	if err := h.service.DeleteOrder(r.Context(), claims, orderID); err != nil {
		writeMappedError(r.Context(), w, "admin_delete_order", err)
		return
	}
	writeMessage(w, http.StatusOK, "Ordine eliminato")
}

func (h *Handler) adminOrderReceipt(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_order_receipt", err)
		return
	}
	claims, _ := claimsFromContext(r.Context())
	receipt, err := h.service.OrderReceipt(r.Context(), claims, orderID)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_order_receipt", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(receipt.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(receipt.Content)
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	q := r.URL.Query()
	res, err := h.service.ListUsers(r.Context(), claims, parseIntDefault(q.Get("page"), 1), parseIntDefault(q.Get("limit"), 20))
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_users", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_delete_user", err)
		return
	}
	claims, _ := claimsFromContext(r.Context())
	if err := h.service.DeleteUser(r.Context(), claims, userID); err != nil {
		writeMappedError(r.Context(), w, "admin_delete_user", err)
		return
	}
	writeMessage(w, http.StatusOK, "Utente eliminato")
}

func (h *Handler) adminSetUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_set_user_role", err)
		return
	}
	var req struct {
		IsAdmin *bool `json:"isAdmin"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_set_user_role", err)
		return
	}
	if req.IsAdmin == nil {
		writeValidationError(r.Context(), w, "admin_set_user_role", fmt.Errorf("isAdmin is required"))
		return
	}
	claims, _ := claimsFromContext(r.Context())
	res, err := h.service.SetUserAdmin(r.Context(), claims, userID, *req.IsAdmin)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_set_user_role", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
