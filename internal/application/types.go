package application

import (
	"encoding/json"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/maglieria/storefront/internal/domain"
)

type Config struct {
	TokenTTL             time.Duration
	ResetTokenTTL        time.Duration
	ResetURLBase         string
	FailedLoginThreshold int
	LockoutDuration      time.Duration
	BootstrapAdminEmail  string
	AttachReceipts       bool
}

type ProfileFields struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Province    string `json:"province"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phoneNumber"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ProfileFields
	IPAddress string `json:"-"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
}

type UserResponse struct {
	ID int64 `json:"id"`
	ProfileFields
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
}

type UpdateProfileRequest struct {
	ProfileFields
	// Password is optional; when set it replaces the current password.
	Password *string `json:"password,omitempty"`
}

type PasswordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ProductInput is the admin create/update payload.
// Images may arrive as an object or as a JSON string holding an object.
type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Sizes       []string        `json:"sizes"`
	Languages   []string        `json:"languages"`
	CoverImage  string          `json:"coverImage"`
	Images      json.RawMessage `json:"images"`
}

type ProductResponse struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Price           decimal.Decimal   `json:"price"`
	Description     string            `json:"description"`
	Sizes           []string          `json:"sizes"`
	Languages       []string          `json:"languages"`
	CoverImage      string            `json:"coverImage"`
	Images          map[string]string `json:"images"`
	DefaultSize     string            `json:"defaultSize"`
	DefaultLanguage string            `json:"defaultLanguage"`
	DisplayImage    string            `json:"displayImage,omitempty"`
}

// SubmitOrderInput is what the checkout sends. TotalAmount is required but never trusted.
type SubmitOrderInput struct {
	Customer      domain.ShippingProfile
	Items         []domain.CartLine
	TotalAmount   mo.Option[decimal.Decimal]
	UserID        mo.Option[int64]
	PaymentMethod mo.Option[string]
	SaveInfo      bool
}

type SubmitOrderResponse struct {
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}

type OrderItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Size         string          `json:"size"`
	Language     string          `json:"language"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

type OrderResponse struct {
	ID            int64               `json:"id"`
	UserID        *int64              `json:"userId"`
	FirstName     string              `json:"firstName"`
	LastName      string              `json:"lastName"`
	Email         string              `json:"email"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	Province      string              `json:"province"`
	ZipCode       string              `json:"zipCode"`
	Country       string              `json:"country"`
	PhoneNumber   string              `json:"phoneNumber"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	OrderDate     time.Time           `json:"orderDate"`
	Items         []OrderItemResponse `json:"items"`
}

type OrderListQuery struct {
	Status string
	Page   int
	Limit  int
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type CommentRequest struct {
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	Author      string `json:"author"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type CommentResponse struct {
	ID          int64     `json:"id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Author      string    `json:"author"`
	IsAnonymous bool      `json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Receipt is a rendered PDF ready to stream.
type Receipt struct {
	Filename string
	Content  []byte
}
