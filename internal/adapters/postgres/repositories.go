package postgres

import (
	"github.com/maglieria/storefront/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users    ports.UserRepository
	Products ports.ProductRepository
	Orders   ports.OrderRepository
	Comments ports.CommentRepository
	Outbox   ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    &userRepository{db: db},
		Products: &productRepository{db: db},
		Orders:   &orderRepository{db: db},
		Comments: &commentRepository{db: db},
		Outbox:   &outboxRepository{db: db},
	}
}
