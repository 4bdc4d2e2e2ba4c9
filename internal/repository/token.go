package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/spendwise/spendwise/internal/model"
)

// TokenRepo is the refresh-token blacklist. Revoked JTIs only need to be
// remembered until the token's own expiry.
type TokenRepo interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context) error
}

type tokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) TokenRepo {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	token := &model.RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	err := r.db.WithContext(ctx).Create(token).Error
	// Revoking an already-revoked token is a no-op, not an error.
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

func (r *tokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var token model.RevokedToken
	err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *tokenRepo) PurgeExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.RevokedToken{}).Error
}
