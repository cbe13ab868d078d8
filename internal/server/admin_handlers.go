package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/auth"
	"github.com/deliverydesk/deliverydesk/internal/models"
)

// AdminDetail represents admin information returned in responses
type AdminDetail struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateAdminRequest represents a request to create a new admin
type CreateAdminRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	Role        string `json:"role" validate:"omitempty,oneof=admin super_admin"`
}

func adminDetail(admin *models.Admin) AdminDetail {
	return AdminDetail{
		ID:          admin.ID,
		Name:        admin.Name,
		Email:       admin.Email,
		PhoneNumber: admin.PhoneNumber,
		Role:        admin.Role,
		CreatedAt:   admin.CreatedAt,
		UpdatedAt:   admin.UpdatedAt,
	}
}

// @Summary Get current admin
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AdminDetail
// @Router /admins/me [get]
func (s *Server) getCurrentAdmin(c *gin.Context) {
	sessionData, _ := GetSessionData(c)
	s.respondAdmin(c, sessionData.AdminID)
}

// @Summary Get admin
// @Description Admins can read their own profile; super admins can read any
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Success 200 {object} AdminDetail
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /admins/{id} [get]
func (s *Server) getAdmin(c *gin.Context) {
	sessionData, _ := GetSessionData(c)
	adminID := c.Param("id")

	if adminID != sessionData.AdminID && sessionData.Role != models.RoleSuperAdmin {
		respondDetail(c, http.StatusForbidden, "Not enough permissions")
		return
	}

	s.respondAdmin(c, adminID)
}

func (s *Server) respondAdmin(c *gin.Context, adminID string) {
	var admin models.Admin
	if err := models.FindByID(s.db, adminID, &admin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondDetail(c, http.StatusNotFound, "Admin not found")
			return
		}
		s.logger.Error().Err(err).Str("admin_id", adminID).Msg("Failed to find admin")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, adminDetail(&admin))
}

// @Summary List admins
// @Description List all admins (super admin only)
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AdminDetail
// @Router /admins [get]
func (s *Server) listAdmins(c *gin.Context) {
	var admins []models.Admin
	if err := s.db.Order("created_at DESC").Find(&admins).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list admins")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	details := make([]AdminDetail, len(admins))
	for i := range admins {
		details[i] = adminDetail(&admins[i])
	}

	c.JSON(http.StatusOK, details)
}

// @Summary Create admin
// @Description Create a new admin (super admin only)
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAdminRequest true "Create admin request"
// @Success 201 {object} AdminDetail
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /admins [post]
func (s *Server) createAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = models.RoleAdmin
	}

	var existing int64
	if err := s.db.Model(&models.Admin{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check admin email")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing > 0 {
		respondDetail(c, http.StatusConflict, "Admin with this email already exists")
		return
	}

	// Hash the provided password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondDetail(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	admin := &models.Admin{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Role:         req.Role,
	}
	if err := s.db.Create(admin).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create admin")
		respondDetail(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("admin_id", admin.ID).
		Str("email", admin.Email).
		Str("created_by", sessionData.AdminID).
		Msg("Admin created")

	c.JSON(http.StatusCreated, adminDetail(admin))
}
