package http

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/maglieria/storefront/internal/application"
	"github.com/maglieria/storefront/internal/domain"
)

type customerDataRequest struct {
	application.ProfileFields
	Email string `json:"email"`
}

type orderItemRequest struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Size     string          `json:"size"`
	Language string          `json:"language"`
}

type submitOrderRequest struct {
	CustomerData  customerDataRequest `json:"customerData"`
	Items         []orderItemRequest  `json:"items"`
	TotalAmount   *decimal.Decimal    `json:"totalAmount"`
	UserID        *int64              `json:"userId"`
	PaymentMethod *string             `json:"paymentMethod"`
	SaveInfo      bool                `json:"saveInfo"`
}

func (req submitOrderRequest) toInput() application.SubmitOrderInput {
	c := req.CustomerData
	return application.SubmitOrderInput{
		Customer: domain.ShippingProfile{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Address:   c.Address,
			City:      c.City,
			Province:  c.Province,
			ZipCode:   c.ZipCode,
			Country:   c.Country,
			Phone:     c.PhoneNumber,
		},
		Items: lo.Map(req.Items, func(it orderItemRequest, _ int) domain.CartLine {
			return domain.CartLine{
				ProductID: it.ID,
				Name:      it.Name,
				Image:     it.Image,
				Size:      it.Size,
				Language:  it.Language,
				Quantity:  it.Quantity,
				UnitPrice: it.Price,
			}
		}),
		TotalAmount:   mo.PointerToOption(req.TotalAmount),
		UserID:        mo.PointerToOption(req.UserID),
		PaymentMethod: mo.PointerToOption(req.PaymentMethod),
		SaveInfo:      req.SaveInfo,
	}
}

// submitOrder accepts guest and signed-in checkouts. A userId in the body must
// match the bearer token; a token without userId attributes the order to its subject.
func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "submit_order", err)
		return
	}

	claims, authenticated := claimsFromContext(r.Context())
	switch {
	case req.UserID != nil && !authenticated:
		writeMappedError(r.Context(), w, "submit_order", errMissingBearer)
		return
	case req.UserID != nil && *req.UserID != claims.UserID:
		writeMappedError(r.Context(), w, "submit_order", domain.ErrForbidden)
		return
	case req.UserID == nil && authenticated:
		req.UserID = lo.ToPtr(claims.UserID)
	}

	res, err := h.service.SubmitOrder(r.Context(), req.toInput())
	if err != nil {
		writeMappedError(r.Context(), w, "submit_order", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}
