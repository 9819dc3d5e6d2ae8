package services

import (
	"context"
	"time"

	"parcel-backend/internal/models"
)

// The services talk to storage through these interfaces; the pgx
// repositories satisfy them in production and tests use in-memory fakes.

type UserStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type VendorStore interface {
	Create(ctx context.Context, v *models.Vendor) error
	CreateWithUser(ctx context.Context, v *models.Vendor, u *models.User) error
	Get(ctx context.Context, id int) (*models.Vendor, error)
	List(ctx context.Context) ([]*models.Vendor, error)
	Update(ctx context.Context, v *models.Vendor) error
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
}

type RecordStore interface {
	Create(ctx context.Context, rec *models.DeliveryRecord) error
	BulkCreate(ctx context.Context, vendorID int, recs []*models.DeliveryRecord) error
	Get(ctx context.Context, vendorID, id int) (*models.DeliveryRecord, error)
	ListByVendor(ctx context.Context, vendorID int) ([]models.DeliveryRecord, error)
	Update(ctx context.Context, rec *models.DeliveryRecord) error
	Delete(ctx context.Context, vendorID, id int) error
}

// CacheStore is a best-effort byte cache; misses and outages look the same.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// EventPublisher fans ledger changes out to live dashboards.
type EventPublisher interface {
	Publish(evt models.LedgerEvent)
}

// Archiver keeps a copy of generated exports.
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, data []byte) error
}
