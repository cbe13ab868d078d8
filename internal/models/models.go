package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Admin roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Config represents the global configuration for the deployment
// This is a singleton model (only one row should exist)
type Config struct {
	BaseModel
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"` // Auto-generated on first start (64 hex chars)
}

// Admin is an operator of the admin console
type Admin struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Role         string    `json:"role" gorm:"not null;default:admin"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsSuperAdmin reports whether the admin may manage other admins
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// Restaurant is a vendor on the delivery platform
type Restaurant struct {
	BaseModel
	Name        string    `json:"name" gorm:"not null;index"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	City        string    `json:"city" gorm:"index"`
	Cuisine     string    `json:"cuisine"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RevokedToken records the jti of an access token that was replaced before it expired
type RevokedToken struct {
	JTI       string    `json:"jti" gorm:"primaryKey;type:varchar(26)"`
	AdminID   string    `json:"admin_id" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// LoginEvent is an audit record of a successful admin login
type LoginEvent struct {
	BaseModel
	AdminID   string    `json:"admin_id" gorm:"not null;index"`
	ClientIP  string    `json:"client_ip"`
	UserAgent string    `json:"user_agent"`
	At        time.Time `json:"at" gorm:"not null;index"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&Config{}, &Admin{}, &Restaurant{}, &RevokedToken{}, &LoginEvent{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
