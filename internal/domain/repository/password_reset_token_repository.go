package repository

import (
	"context"

	"github.com/mwaniki/salepoint-api/internal/domain/entity"
)

// PasswordResetTokenRepository defines the interface for reset token storage
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	MarkUsed(ctx context.Context, token string) error
	InvalidateForEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) error
}
