package http

import (
	"net/http"
	"strings"

	"github.com/maglieria/storefront/internal/application"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListProducts(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_products", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "get_product", err)
		return
	}
	language := strings.TrimSpace(r.URL.Query().Get("language"))
	res, err := h.service.GetProduct(r.Context(), productID, language)
	if err != nil {
		writeMappedError(r.Context(), w, "get_product", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in application.ProductInput
	if err := decodeBody(w, r, &in); err != nil {
		writeValidationError(r.Context(), w, "create_product", err)
		return
	}
	res, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		writeMappedError(r.Context(), w, "create_product", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "update_product", err)
		return
	}
	var in application.ProductInput
	if err := decodeBody(w, r, &in); err != nil {
		writeValidationError(r.Context(), w, "update_product", err)
		return
	}
	res, err := h.service.UpdateProduct(r.Context(), productID, in)
	if err != nil {
		writeMappedError(r.Context(), w, "update_product", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_product", err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		writeMappedError(r.Context(), w, "delete_product", err)
		return
	}
	writeMessage(w, http.StatusOK, "Prodotto eliminato")
}
