package services

import (
	"context"
	"fmt"
	"strings"

	"parcel-backend/internal/auth"
	"parcel-backend/internal/cache"
	"parcel-backend/internal/models"
)

type VendorService struct {
	Repo  VendorStore
	Cache CacheStore
}

func NewVendorService(repo VendorStore, c CacheStore) *VendorService {
	return &VendorService{Repo: repo, Cache: c}
}

// CreateVendor creates a vendor and, when login credentials are supplied,
// its vendor user in the same transaction.
func (s *VendorService) CreateVendor(ctx context.Context, req *models.CreateVendorRequest) (*models.Vendor, error) {
	v := &models.Vendor{
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
		Address:  strings.TrimSpace(req.Address),
		IsActive: true,
	}

	if req.LoginEmail == "" {
		if err := s.Repo.Create(ctx, v); err != nil {
			return nil, err
		}
		s.Cache.Delete(ctx, cache.LedgerBalances)
		return v, nil
	}

	if len(req.LoginPassword) < auth.MinPasswordLength {
		return nil, fmt.Errorf("%w: login password must be at least %d characters", models.ErrInvalidInput, auth.MinPasswordLength)
	}
	hash, err := auth.HashPassword(req.LoginPassword)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         v.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.LoginEmail)),
		PasswordHash: hash,
		Role:         models.RoleVendor,
		IsActive:     true,
	}
	if err := s.Repo.CreateWithUser(ctx, v, u); err != nil {
		return nil, err
	}
	s.Cache.Delete(ctx, cache.LedgerBalances)
	return v, nil
}

func (s *VendorService) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	return s.Repo.Get(ctx, id)
}

func (s *VendorService) ListVendors(ctx context.Context) ([]*models.Vendor, error) {
	vendors, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []*models.Vendor{}
	}
	return vendors, nil
}

func (s *VendorService) UpdateVendor(ctx context.Context, id int, req *models.UpdateVendorRequest) (*models.Vendor, error) {
	v, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Name = strings.TrimSpace(req.Name)
	v.Phone = strings.TrimSpace(req.Phone)
	v.Email = strings.TrimSpace(req.Email)
	v.Address = strings.TrimSpace(req.Address)
	if err := s.Repo.Update(ctx, v); err != nil {
		return nil, err
	}
	// the admin overview carries vendor names
	s.Cache.Delete(ctx, cache.LedgerBalances)
	return v, nil
}

// SetVendorActive leaves cached ledgers alone; balances do not depend on the active flag.
func (s *VendorService) SetVendorActive(ctx context.Context, id int, active bool) error {
	return s.Repo.SetActive(ctx, id, active)
}

func (s *VendorService) DeleteVendor(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Delete(ctx, cache.LedgerKey(id), cache.LedgerBalances)
	return nil
}
