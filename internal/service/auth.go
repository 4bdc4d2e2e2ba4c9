package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService implements the delegated authentication lifecycle: register,
// login, refresh with rotation, logout via a refresh-token blacklist, and
// profile management. Access tokens stay valid until expiry; their TTL is
// short, so logout only has to kill the refresh token.
type AuthService struct {
	users  repository.UserRepo
	tokens repository.TokenRepo
	cfg    config.JWTConfig
}

func NewAuthService(users repository.UserRepo, tokens repository.TokenRepo, cfg config.JWTConfig) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:       id.String(),
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a token pair. Both "no such account"
// and "wrong password" collapse into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token, rotates it (the old JTI is revoked) and
// issues a fresh pair. A revoked or reused token fails with ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, jti, expiresAt, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, jti)
	if err != nil {
		return TokenPair{}, err
	}
	if revoked {
		return TokenPair{}, ErrInvalidToken
	}

	if err := s.tokens.Revoke(ctx, jti, userID, expiresAt); err != nil {
		return TokenPair{}, err
	}
	return s.issueTokens(userID)
}

// Logout revokes the refresh token so it can never mint new access tokens.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	userID, jti, expiresAt, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, jti, userID, expiresAt)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, username, email *string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if username != nil {
		if *username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrValidation)
		}
		user.Username = *username
	}
	if email != nil {
		if *email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
		user.Email = *email
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return s.users.Update(ctx, user)
}

func (s *AuthService) issueTokens(userID string) (TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.AccessTokenTTL).Unix(),
	})
	accessStr, err := access.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return TokenPair{}, err
	}

	jti, err := uuid.NewV7()
	if err != nil {
		return TokenPair{}, err
	}
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     jti.String(),
		"typ":     "refresh",
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.RefreshTokenTTL).Unix(),
	})
	refreshStr, err := refresh.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessStr, RefreshToken: refreshStr}, nil
}

func (s *AuthService) parseRefreshToken(tokenString string) (userID, jti string, expiresAt time.Time, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", time.Time{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", time.Time{}, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return "", "", time.Time{}, errors.Join(ErrInvalidToken, errors.New("not a refresh token"))
	}
	userID, _ = claims["user_id"].(string)
	jti, _ = claims["jti"].(string)
	if userID == "" || jti == "" {
		return "", "", time.Time{}, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", "", time.Time{}, ErrInvalidToken
	}
	return userID, jti, exp.Time, nil
}
