package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/auth"
	"github.com/deliverydesk/deliverydesk/internal/models"
	"github.com/deliverydesk/deliverydesk/internal/tasks"
)

const invalidCredentialsDetail = "Invalid credentials"

// LoginRequest is the form body of an OAuth2 password grant
type LoginRequest struct {
	GrantType    string `form:"grant_type"`
	Username     string `form:"username" validate:"required"`
	Password     string `form:"password" validate:"required"`
	Scope        string `form:"scope"`
	ClientID     string `form:"client_id"`
	ClientSecret string `form:"client_secret"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AdminID     string `json:"admin_id"`
}

// @Summary Admin login
// @Description OAuth2 password grant for admin accounts
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} TokenResponse
// @Failure 401 {object} map[string]interface{}
// @Router /auth/admin/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GrantType != "" && req.GrantType != "password" {
		respondDetail(c, http.StatusBadRequest, "Unsupported grant type")
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	if err := auth.VerifyClient(s.config.Auth.ClientID, s.config.Auth.ClientSecret, req.ClientID, req.ClientSecret); err != nil {
		s.metrics.CounterLogins.WithLabelValues("invalid_client").Inc()
		respondWithError(c, s.logger, http.StatusUnauthorized, err, "Invalid client credentials")
		return
	}

	// Find admin by email
	var admin models.Admin
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Username))).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.CounterLogins.WithLabelValues("failure").Inc()
			respondDetail(c, http.StatusUnauthorized, invalidCredentialsDetail)
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find admin")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, admin.PasswordHash); err != nil {
		s.metrics.CounterLogins.WithLabelValues("failure").Inc()
		respondDetail(c, http.StatusUnauthorized, invalidCredentialsDetail)
		return
	}

	token, _, err := auth.GenerateToken(admin.ID, admin.Role, s.config.Auth.TokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondDetail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.metrics.CounterLogins.WithLabelValues("success").Inc()
	s.auditLogin(c.Request.Context(), tasks.AuditLoginPayload{
		AdminID:   admin.ID,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		At:        time.Now().UTC(),
	})

	s.logger.Info().Str("admin_id", admin.ID).Str("email", admin.Email).Msg("Admin logged in")

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		AdminID:     admin.ID,
	})
}

// auditLogin enqueues the login audit task. Failures never block a login.
func (s *Server) auditLogin(ctx context.Context, payload tasks.AuditLoginPayload) {
	if s.tasks == nil {
		return
	}

	task, err := tasks.NewAuditLoginTask(payload)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create audit task")
		return
	}
	if _, err := s.tasks.EnqueueContext(ctx, task); err != nil {
		s.logger.Warn().Err(err).Str("admin_id", payload.AdminID).Msg("Failed to enqueue audit task")
	}
}

// @Summary Refresh access token
// @Description Exchanges the presented token for a new one; the old token stops working
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TokenResponse
// @Router /auth/admin/refresh-token [post]
func (s *Server) refreshToken(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		respondDetail(c, http.StatusUnauthorized, credentialsDetail)
		return
	}

	token, _, err := auth.GenerateToken(sessionData.AdminID, sessionData.Role, s.config.Auth.TokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondDetail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	revoked := &models.RevokedToken{
		JTI:       sessionData.TokenID,
		AdminID:   sessionData.AdminID,
		ExpiresAt: sessionData.ExpiresAt,
	}
	if err := s.db.Create(revoked).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to revoke token")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info().Str("admin_id", sessionData.AdminID).Msg("Access token refreshed")

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		AdminID:     sessionData.AdminID,
	})
}
