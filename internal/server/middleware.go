package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/auth"
	"github.com/deliverydesk/deliverydesk/internal/models"
)

const (
	bearerPrefix = "Bearer "

	// ClientTypeHeader identifies the calling application
	ClientTypeHeader = "X-Client-Type"
	clientTypeAdmin  = "admin"

	credentialsDetail = "Could not validate credentials"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrRevokedToken      = errors.New("revoked token")
	ErrAdminNotFound     = errors.New("admin not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// respondDetail writes the {"detail": ...} error envelope and aborts the chain
func respondDetail(c *gin.Context, statusCode int, detail string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"detail": detail})
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	respondDetail(c, statusCode, message)
}

// ClientTypeMiddleware rejects callers that aren't the admin console
func ClientTypeMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(ClientTypeHeader) != clientTypeAdmin {
			respondWithError(c, log, http.StatusForbidden, errors.New("wrong client type"), "Invalid client type")
			return
		}
		c.Next()
	}
}

// JWTAuthMiddleware validates the bearer access token and loads the admin
func JWTAuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("WWW-Authenticate", "Bearer")

		// Extract token from Authorization header
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, err, credentialsDetail)
			return
		}

		// Validate JWT token
		claims, err := auth.ValidateToken(token)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, errors.Join(ErrInvalidToken, err), credentialsDetail)
			return
		}

		// Replaced by a refresh
		var revoked int64
		if err := db.Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked).Error; err != nil {
			log.Error().Err(err).Msg("Failed to check token revocation")
			respondDetail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if revoked > 0 {
			respondWithError(c, log, http.StatusUnauthorized, ErrRevokedToken, credentialsDetail)
			return
		}

		// Verify admin exists in database
		var admin models.Admin
		if err := models.FindByID(db, claims.AdminID, &admin); err != nil {
			respondWithError(c, log, http.StatusUnauthorized, ErrAdminNotFound, credentialsDetail)
			return
		}

		sessionData := &auth.SessionData{
			AdminID: admin.ID,
			Email:   admin.Email,
			Role:    admin.Role,
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			sessionData.ExpiresAt = claims.ExpiresAt.Time.UTC()
		}
		setSession(c, sessionData)

		c.Next()
	}
}

// SuperAdminOnlyMiddleware ensures the authenticated admin is a super admin
func SuperAdminOnlyMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), credentialsDetail)
			return
		}

		if sessionData.Role != models.RoleSuperAdmin {
			respondWithError(c, log, http.StatusForbidden, errors.New("not super admin"), "Not enough permissions")
			return
		}

		c.Next()
	}
}
