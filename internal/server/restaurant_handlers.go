package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RestaurantRequest is the body of create and update. Nil fields are left untouched on update.
type RestaurantRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	City        *string `json:"city" validate:"omitempty,max=80"`
	Cuisine     *string `json:"cuisine" validate:"omitempty,max=80"`
	IsActive    *bool   `json:"is_active"`
}

// updates returns the column changes carried by the request
func (r *RestaurantRequest) updates() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Name != nil {
		changes["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		changes["email"] = *r.Email
	}
	if r.PhoneNumber != nil {
		changes["phone_number"] = *r.PhoneNumber
	}
	if r.Address != nil {
		changes["address"] = *r.Address
	}
	if r.City != nil {
		changes["city"] = *r.City
	}
	if r.Cuisine != nil {
		changes["cuisine"] = *r.Cuisine
	}
	if r.IsActive != nil {
		changes["is_active"] = *r.IsActive
	}
	return changes
}

// RestaurantPage is one page of restaurants
type RestaurantPage struct {
	Items []models.Restaurant `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

func (s *Server) bindRestaurant(c *gin.Context) (*RestaurantRequest, bool) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := s.validator.Struct(&req); err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, validationDetail(err))
		return nil, false
	}
	return &req, true
}

func (s *Server) findRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	var restaurant models.Restaurant
	if err := models.FindByID(s.db, c.Param("id"), &restaurant); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondDetail(c, http.StatusNotFound, "Restaurant not found")
			return nil, false
		}
		s.logger.Error().Err(err).Str("restaurant_id", c.Param("id")).Msg("Failed to find restaurant")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return &restaurant, true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// @Summary List restaurants
// @Tags restaurants
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (from 1)"
// @Param size query int false "Page size (max 100)"
// @Param search query string false "Name filter"
// @Success 200 {object} RestaurantPage
// @Router /restaurants [get]
func (s *Server) listRestaurants(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		respondDetail(c, http.StatusUnprocessableEntity, "page must be a positive integer")
		return
	}
	size, ok := queryInt(c, "size", defaultPageSize)
	if !ok {
		respondDetail(c, http.StatusUnprocessableEntity, "size must be a positive integer")
		return
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	query := s.db.Model(&models.Restaurant{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	result := RestaurantPage{Items: []models.Restaurant{}, Page: page, Size: size}
	if err := query.Count(&result.Total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count restaurants")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := query.Order("name ASC").Offset((page - 1) * size).Limit(size).Find(&result.Items).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list restaurants")
		respondDetail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Get restaurant
// @Tags restaurants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Restaurant ID"
// @Success 200 {object} models.Restaurant
// @Failure 404 {object} map[string]interface{}
// @Router /restaurants/{id} [get]
func (s *Server) getRestaurant(c *gin.Context) {
	restaurant, ok := s.findRestaurant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// @Summary Create restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RestaurantRequest true "Restaurant"
// @Success 201 {object} models.Restaurant
// @Failure 422 {object} map[string]interface{}
// @Router /restaurants [post]
func (s *Server) createRestaurant(c *gin.Context) {
	req, ok := s.bindRestaurant(c)
	if !ok {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		respondDetail(c, http.StatusUnprocessableEntity, "name is required")
		return
	}

	restaurant := &models.Restaurant{Name: strings.TrimSpace(*req.Name), IsActive: true}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}
		// Apply the fields as an update so an explicit is_active=false isn't dropped as a zero value
		return tx.Model(restaurant).Updates(req.updates()).Error
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create restaurant")
		respondDetail(c, http.StatusInternalServerError, "Failed to create restaurant")
		return
	}

	if err := models.FindByID(s.db, restaurant.ID, restaurant); err != nil {
		s.logger.Error().Err(err).Msg("Failed to reload restaurant")
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("restaurant_id", restaurant.ID).
		Str("created_by", sessionData.AdminID).
		Msg("Restaurant created")

	c.JSON(http.StatusCreated, restaurant)
}

// @Summary Update restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Restaurant ID"
// @Param request body RestaurantRequest true "Changed fields"
// @Success 200 {object} models.Restaurant
// @Router /restaurants/{id} [put]
func (s *Server) updateRestaurant(c *gin.Context) {
	restaurant, ok := s.findRestaurant(c)
	if !ok {
		return
	}
	req, ok := s.bindRestaurant(c)
	if !ok {
		return
	}

	changes := req.updates()
	if name, set := changes["name"]; set && name == "" {
		respondDetail(c, http.StatusUnprocessableEntity, "name cannot be empty")
		return
	}

	if len(changes) > 0 {
		if err := s.db.Model(restaurant).Updates(changes).Error; err != nil {
			s.logger.Error().Err(err).Str("restaurant_id", restaurant.ID).Msg("Failed to update restaurant")
			respondDetail(c, http.StatusInternalServerError, "Failed to update restaurant")
			return
		}
	}

	if err := models.FindByID(s.db, restaurant.ID, restaurant); err != nil {
		s.logger.Error().Err(err).Msg("Failed to reload restaurant")
	}

	c.JSON(http.StatusOK, restaurant)
}

// @Summary Delete restaurant
// @Tags restaurants
// @Security BearerAuth
// @Param id path string true "Restaurant ID"
// @Success 204
// @Router /restaurants/{id} [delete]
func (s *Server) deleteRestaurant(c *gin.Context) {
	restaurant, ok := s.findRestaurant(c)
	if !ok {
		return
	}

	if err := s.db.Delete(restaurant).Error; err != nil {
		s.logger.Error().Err(err).Str("restaurant_id", restaurant.ID).Msg("Failed to delete restaurant")
		respondDetail(c, http.StatusInternalServerError, "Failed to delete restaurant")
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("restaurant_id", restaurant.ID).
		Str("deleted_by", sessionData.AdminID).
		Msg("Restaurant deleted")

	c.Status(http.StatusNoContent)
}
