package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parcel-backend/internal/models"
)

type VendorRepository struct {
	DB    *pgxpool.Pool
	users *UserRepository
}

func NewVendorRepository(db *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{DB: db, users: NewUserRepository(db)}
}

const vendorColumns = `id, name, phone, COALESCE(email, ''), COALESCE(address, ''), is_active, created_at, updated_at`

func (r *VendorRepository) Create(ctx context.Context, v *models.Vendor) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO vendors(name, phone, email, address, is_active)
         VALUES($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
         RETURNING id, created_at, updated_at`,
		v.Name, v.Phone, v.Email, v.Address, v.IsActive,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

// CreateWithUser inserts a vendor and its login user in one transaction. The
// user's VendorID is set from the new vendor.
func (r *VendorRepository) CreateWithUser(ctx context.Context, v *models.Vendor, u *models.User) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO vendors(name, phone, email, address, is_active)
         VALUES($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
         RETURNING id, created_at, updated_at`,
		v.Name, v.Phone, v.Email, v.Address, v.IsActive,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return translate(err)
	}

	u.VendorID = &v.ID
	if err := r.users.createTx(ctx, tx, u); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *VendorRepository) Get(ctx context.Context, id int) (*models.Vendor, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id=$1`, id)
	return scanVendor(row)
}

// List returns all vendors, by name
func (r *VendorRepository) List(ctx context.Context) ([]*models.Vendor, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) Update(ctx context.Context, v *models.Vendor) error {
	return affected(r.DB.Exec(ctx,
		`UPDATE vendors SET name=$1, phone=$2, email=NULLIF($3, ''), address=NULLIF($4, ''), updated_at=CURRENT_TIMESTAMP
         WHERE id=$5`,
		v.Name, v.Phone, v.Email, v.Address, v.ID))
}

// SetActive flips a vendor and all of its login users together, so a
// suspended vendor can no longer sign in.
func (r *VendorRepository) SetActive(ctx context.Context, id int, active bool) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := affected(tx.Exec(ctx,
		`UPDATE vendors SET is_active=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, active, id)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE users SET is_active=$1, updated_at=CURRENT_TIMESTAMP WHERE vendor_id=$2`, active, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes a vendor; its users and delivery records cascade.
func (r *VendorRepository) Delete(ctx context.Context, id int) error {
	return affected(r.DB.Exec(ctx, `DELETE FROM vendors WHERE id=$1`, id))
}

func scanVendor(row pgx.Row) (*models.Vendor, error) {
	var v models.Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Phone, &v.Email, &v.Address, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}
