package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/api/response"
	"github.com/spendwise/spendwise/internal/service"
)

// AuthController handles the authentication lifecycle.
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ProfileUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register creates a new account.
// @Summary      Register
// @Description  Create a new user; passwords are stored bcrypt-hashed.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "registration payload"
// @Success      201 {object} response.Response
// @Failure      400 {object} response.Response
// @Failure      409 {object} response.Response
// @Router       /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := ctrl.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		slog.Warn("registration failed", "email", req.Email, "error", err)
		writeError(c, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	response.Created(c, gin.H{"id": user.ID, "username": user.Username, "email": user.Email})
}

// Login verifies credentials and issues an access/refresh token pair.
// @Summary      Login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "credentials"
// @Success      200 {object} response.Response{data=LoginResponse}
// @Failure      401 {object} response.Response
// @Router       /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, pair, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "email", req.Email)
		writeError(c, err)
		return
	}

	response.Success(c, LoginResponse{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh rotates a refresh token into a new token pair.
// @Summary      Refresh tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "refresh token"
// @Success      200 {object} response.Response{data=service.TokenPair}
// @Failure      401 {object} response.Response
// @Router       /auth/token/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	pair, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, pair)
}

// Logout revokes the presented refresh token.
// @Summary      Logout
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RefreshRequest true "refresh token to revoke"
// @Success      200 {object} response.Response
// @Router       /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// Profile returns the authenticated user's profile.
// @Summary      Get profile
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=model.User}
// @Router       /auth/profile [get]
func (ctrl *AuthController) Profile(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	user, err := ctrl.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateProfile changes username and/or email.
// @Summary      Update profile
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ProfileUpdateRequest true "fields to change"
// @Success      200 {object} response.Response{data=model.User}
// @Router       /auth/profile [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, req.Username, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, user)
}

// ChangePassword verifies the old password and sets a new one.
// @Summary      Change password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "old and new password"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response
// @Router       /auth/change-password [post]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := ctrl.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}
