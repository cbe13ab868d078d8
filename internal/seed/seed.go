// Package seed bootstraps an empty database from a YAML file.
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/deliverydesk/deliverydesk/internal/auth"
	"github.com/deliverydesk/deliverydesk/internal/models"
)

// File is the layout of a seed file
type File struct {
	Admins      []Admin      `yaml:"admins"`
	Restaurants []Restaurant `yaml:"restaurants"`
}

// Admin is a bootstrap admin account. Password is plain text and hashed on import.
type Admin struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	PhoneNumber string `yaml:"phone_number"`
	Role        string `yaml:"role"`
}

// Restaurant is a bootstrap restaurant
type Restaurant struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	PhoneNumber string `yaml:"phone_number"`
	Address     string `yaml:"address"`
	City        string `yaml:"city"`
	Cuisine     string `yaml:"cuisine"`
	Inactive    bool   `yaml:"inactive"`
}

// Parse decodes a seed file
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, admin := range f.Admins {
		if admin.Email == "" || admin.Password == "" {
			return nil, fmt.Errorf("admin #%d: email and password are required", i+1)
		}
		switch admin.Role {
		case "":
			f.Admins[i].Role = models.RoleAdmin
		case models.RoleAdmin, models.RoleSuperAdmin:
		default:
			return nil, fmt.Errorf("admin %s: unknown role '%s'", admin.Email, admin.Role)
		}
	}
	for i, r := range f.Restaurants {
		if r.Name == "" {
			return nil, fmt.Errorf("restaurant #%d: name is required", i+1)
		}
	}

	return &f, nil
}

// ApplyFile reads path and applies it. A missing path is not an error.
func ApplyFile(db *gorm.DB, path string, logger zerolog.Logger) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("Seed file not found - skipping")
			return nil
		}
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return err
	}
	return Apply(db, f, logger)
}

// Apply imports f when the admins table is empty. A database that already has admins is left alone.
func Apply(db *gorm.DB, f *File, logger zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		logger.Debug().Int64("admins", count).Msg("Database already seeded")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, a := range f.Admins {
			hash, err := auth.HashPassword(a.Password)
			if err != nil {
				return err
			}
			admin := &models.Admin{
				Email:        strings.ToLower(a.Email),
				PasswordHash: hash,
				Name:         a.Name,
				PhoneNumber:  a.PhoneNumber,
				Role:         a.Role,
			}
			if err := tx.Create(admin).Error; err != nil {
				return fmt.Errorf("failed to create admin %s: %w", a.Email, err)
			}
		}

		for _, r := range f.Restaurants {
			restaurant := &models.Restaurant{
				Name:        r.Name,
				Email:       r.Email,
				PhoneNumber: r.PhoneNumber,
				Address:     r.Address,
				City:        r.City,
				Cuisine:     r.Cuisine,
				IsActive:    !r.Inactive,
			}
			if err := tx.Create(restaurant).Error; err != nil {
				return fmt.Errorf("failed to create restaurant %s: %w", r.Name, err)
			}
			// gorm skips zero-valued fields that have a default on create
			if r.Inactive {
				if err := tx.Model(restaurant).Update("is_active", false).Error; err != nil {
					return err
				}
			}
		}

		logger.Info().
			Int("admins", len(f.Admins)).
			Int("restaurants", len(f.Restaurants)).
			Msg("Database seeded")
		return nil
	})
}
