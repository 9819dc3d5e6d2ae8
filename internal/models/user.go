package models

import "time"

// Roles
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`                   // Never expose in JSON
	Role         string    `json:"role"`                // admin or vendor
	VendorID     *int      `json:"vendor_id,omitempty"` // set for vendor users only
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CanAccessVendor reports whether u may read or write the given vendor's
// parcels and ledger. Admins reach every vendor, vendor users only their own.
func (u *User) CanAccessVendor(vendorID int) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleVendor && u.VendorID != nil && *u.VendorID == vendorID
}
