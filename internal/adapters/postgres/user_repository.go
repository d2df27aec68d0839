package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) CreateWithOutboxTx(ctx context.Context, params ports.CreateUserParams, outboxEvent ports.OutboxEvent) (domain.User, error) {
	var result domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := userModel{
			Email:        params.Email,
			PasswordHash: params.PasswordHash,
			FirstName:    params.Profile.FirstName,
			LastName:     params.Profile.LastName,
			Address:      params.Profile.Address,
			City:         params.Profile.City,
			Province:     params.Profile.Province,
			ZipCode:      params.Profile.ZipCode,
			Country:      params.Profile.Country,
			Phone:        params.Profile.Phone,
			IsAdmin:      params.IsAdmin,
			CreatedAt:    params.CreatedAt,
			UpdatedAt:    params.CreatedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		payload := withField(outboxEvent.Payload, "user_id", rec.ID)
		if err := tx.Create(&outboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: strconv.FormatInt(rec.ID, 10),
			Payload:      string(payload),
			CreatedAt:    outboxEvent.OccurredAt,
		}).Error; err != nil {
			return err
		}

		result = toDomainUser(rec)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return result, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&rec).Error; err != nil {
		if isNotFound(err) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if isNotFound(err) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, profile domain.ShippingProfile, passwordHash *string, at time.Time) (domain.User, error) {
	var result domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := profileColumns(profile)
		updates["updated_at"] = at
		if passwordHash != nil {
			updates["password_hash"] = *passwordHash
		}
		res := tx.Model(&userModel{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		var rec userModel
		if err := tx.Where("id = ?", userID).Take(&rec).Error; err != nil {
			return err
		}
		result = toDomainUser(rec)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return result, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).
		Where("reset_token_hash = ?", tokenHash).
		Where("reset_token_expires_at > ?", now).
		Take(&rec).Error; err != nil {
		if isNotFound(err) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	// The hash predicate makes a concurrent second use affect zero rows.
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", rec.ID).
		Where("reset_token_hash = ?", tokenHash).
		Updates(map[string]any{
			"password_hash":          passwordHash,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
			"updated_at":             now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrNotFound
	}
	return rec.ID, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainUser(row))
	}
	return out, nil
}

func (r *userRepository) Delete(ctx context.Context, userID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", userID).Delete(&userModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetAdmin(ctx context.Context, userID int64, isAdmin bool, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_admin":   isAdmin,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// withField sets key on a JSON object payload, leaving non-object payloads untouched.
func withField(payload []byte, key string, value any) []byte {
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return payload
	}
	obj[key] = value
	adjusted, err := json.Marshal(obj)
	if err != nil {
		return payload
	}
	return adjusted
}
