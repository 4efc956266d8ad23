package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/postwind/postwind/internal/domain"
)

// EnsureAdminUser bootstraps the initial owner account. Admin users are only
// created here; there is no signup endpoint. A no-op when email is empty or
// the account already exists.
func EnsureAdminUser(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" {
		return nil
	}

	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required to create the initial admin user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO admin_users (id, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), email, string(hash), domain.AdminRoleOwner, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}
