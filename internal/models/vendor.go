package models

import "time"

type Vendor struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateVendorRequest represents the request body for creating a vendor.
// When LoginEmail is set a vendor user is created alongside it.
type CreateVendorRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Phone         string `json:"phone" validate:"required,max=32"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address" validate:"max=1000"`
	LoginEmail    string `json:"login_email" validate:"omitempty,email"`
	LoginPassword string `json:"login_password" validate:"required_with=LoginEmail,max=72"`
}

// UpdateVendorRequest represents the request body for updating a vendor
type UpdateVendorRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=32"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=1000"`
}

type SetVendorActiveRequest struct {
	IsActive bool `json:"is_active"`
}
