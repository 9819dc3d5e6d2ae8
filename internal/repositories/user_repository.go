package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parcel-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, password_hash, role, vendor_id, is_active, created_at, updated_at`

const insertUser = `INSERT INTO users(name, email, password_hash, role, vendor_id, is_active)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`

func userDefaults(u *models.User) {
	if u.Role == "" {
		u.Role = models.RoleVendor
	}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	userDefaults(u)
	err := r.DB.QueryRow(ctx, insertUser,
		u.Name, u.Email, u.PasswordHash, u.Role, u.VendorID, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translate(err)
}

// createTx inserts u inside an open transaction.
func (r *UserRepository) createTx(ctx context.Context, tx pgx.Tx, u *models.User) error {
	userDefaults(u)
	err := tx.QueryRow(ctx, insertUser,
		u.Name, u.Email, u.PasswordHash, u.Role, u.VendorID, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translate(err)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.VendorID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
