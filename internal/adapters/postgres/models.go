package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type userModel struct {
	ID                  int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Email               string     `gorm:"column:email;uniqueIndex"`
	PasswordHash        string     `gorm:"column:password_hash"`
	FirstName           string     `gorm:"column:first_name"`
	LastName            string     `gorm:"column:last_name"`
	Address             string     `gorm:"column:address"`
	City                string     `gorm:"column:city"`
	Province            string     `gorm:"column:province"`
	ZipCode             string     `gorm:"column:zip_code"`
	Country             string     `gorm:"column:country"`
	Phone               string     `gorm:"column:phone_number"`
	IsAdmin             bool       `gorm:"column:is_admin"`
	ResetTokenHash      *string    `gorm:"column:reset_token_hash"`
	ResetTokenExpiresAt *time.Time `gorm:"column:reset_token_expires_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type productModel struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string            `gorm:"column:name"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2)"`
	Description string            `gorm:"column:description"`
	Sizes       []string          `gorm:"column:sizes;type:jsonb;serializer:json"`
	Languages   []string          `gorm:"column:languages;type:jsonb;serializer:json"`
	CoverImage  string            `gorm:"column:cover_image"`
	Images      map[string]string `gorm:"column:images;type:jsonb;serializer:json"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

type orderModel struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        *int64          `gorm:"column:user_id"`
	FirstName     string          `gorm:"column:first_name"`
	LastName      string          `gorm:"column:last_name"`
	Email         string          `gorm:"column:email"`
	Address       string          `gorm:"column:address"`
	City          string          `gorm:"column:city"`
	Province      string          `gorm:"column:province"`
	ZipCode       string          `gorm:"column:zip_code"`
	Country       string          `gorm:"column:country"`
	Phone         string          `gorm:"column:phone_number"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2)"`
	Status        string          `gorm:"column:status"`
	PaymentMethod *string         `gorm:"column:payment_method"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderModel) TableName() string { return "orders" }

type orderItemModel struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      int64           `gorm:"column:order_id;index"`
	ProductID    int64           `gorm:"column:product_id"`
	ProductName  string          `gorm:"column:product_name"`
	ProductImage string          `gorm:"column:product_image"`
	Size         string          `gorm:"column:size"`
	Language     string          `gorm:"column:language"`
	Quantity     int             `gorm:"column:quantity"`
	UnitPrice    decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
}

func (orderItemModel) TableName() string { return "order_items" }

type commentModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Rating     int       `gorm:"column:rating"`
	Body       string    `gorm:"column:body"`
	AuthorName string    `gorm:"column:author_name"`
	Anonymous  bool      `gorm:"column:anonymous"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (commentModel) TableName() string { return "comments" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "outbox" }
