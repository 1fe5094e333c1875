package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/spotlesscleaning/site-server-go/internal/model"
)

type AdminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	FindByID(ctx context.Context, id string) (*model.AdminUser, error)
	UpsertByEmail(ctx context.Context, email, passwordHash string) (*model.AdminUser, error)
}

type adminUserRepo struct {
	db *sqlx.DB
}

func NewAdminUserRepository(db *sqlx.DB) AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM admin_users WHERE email = $1
	`, email)
	return HandleNotFound(&user, err)
}

func (r *adminUserRepo) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM admin_users WHERE id = $1
	`, id)
	return HandleNotFound(&user, err)
}

// UpsertByEmail seeds the admin credential from configuration at startup.
// Credentials are otherwise read-only to this service.
func (r *adminUserRepo) UpsertByEmail(ctx context.Context, email, passwordHash string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO admin_users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email)
		DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING *
	`, email, passwordHash)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
