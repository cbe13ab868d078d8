package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const restaurantsPath = "/restaurants"

// Restaurant represents a vendor on the platform
type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Cuisine     string    `json:"cuisine"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RestaurantInput is the body of create and update requests.
// Nil fields are left untouched on update.
type RestaurantInput struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Cuisine     *string `json:"cuisine,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// RestaurantPage is one page of a restaurant listing
type RestaurantPage struct {
	Items []Restaurant `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
}

// ListOptions filters a listing
type ListOptions struct {
	Page   int
	Size   int
	Search string
}

func (o ListOptions) query() url.Values {
	query := url.Values{}
	if o.Page > 0 {
		query.Set("page", strconv.Itoa(o.Page))
	}
	if o.Size > 0 {
		query.Set("size", strconv.Itoa(o.Size))
	}
	if o.Search != "" {
		query.Set("search", o.Search)
	}
	return query
}

func restaurantPath(id string) string {
	return fmt.Sprintf("%s/%s", restaurantsPath, url.PathEscape(id))
}

// ListRestaurants returns a page of restaurants
func (c *Client) ListRestaurants(ctx context.Context, opts ListOptions) (*RestaurantPage, error) {
	var page RestaurantPage
	if err := c.do(ctx, restaurantsPath, &page, WithQuery(opts.query())); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetRestaurant returns a restaurant by ID
func (c *Client) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	var restaurant Restaurant
	if err := c.do(ctx, restaurantPath(id), &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// CreateRestaurant registers a new restaurant
func (c *Client) CreateRestaurant(ctx context.Context, input RestaurantInput) (*Restaurant, error) {
	var restaurant Restaurant
	if err := c.do(ctx, restaurantsPath, &restaurant,
		WithMethod(http.MethodPost),
		WithJSONBody(input),
	); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// UpdateRestaurant changes the given fields of a restaurant
func (c *Client) UpdateRestaurant(ctx context.Context, id string, input RestaurantInput) (*Restaurant, error) {
	var restaurant Restaurant
	if err := c.do(ctx, restaurantPath(id), &restaurant,
		WithMethod(http.MethodPut),
		WithJSONBody(input),
	); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// DeleteRestaurant removes a restaurant
func (c *Client) DeleteRestaurant(ctx context.Context, id string) error {
	return c.do(ctx, restaurantPath(id), nil, WithMethod(http.MethodDelete))
}
