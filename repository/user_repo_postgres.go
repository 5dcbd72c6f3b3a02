package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kpslogistics/models"
)

type PostgresUserRepo struct {
	DB *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{DB: db}
}

// CreateUser checks username uniqueness, hashes the password and inserts.
func (r *PostgresUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	existing, err := r.GetUserByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", models.ErrDuplicateUser, user.Username)
	}

	if err := hashPassword(user); err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO app_user (username, password_hash, is_admin, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Username, user.Password, user.IsAdmin, user.IsActive, user.CreatedAt).Scan(&user.ID)
	if isPQCode(err, pqUniqueViolation) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateUser, user.Username)
	}
	if err != nil {
		return fmt.Errorf("PostgresUserRepo.CreateUser: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, is_active, created_at
		FROM app_user
		WHERE username=$1
	`, username).Scan(&user.ID, &user.Username, &user.Password, &user.IsAdmin, &user.IsActive, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresUserRepo.GetUserByUsername: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&n); err != nil {
		return 0, fmt.Errorf("PostgresUserRepo.CountUsers: %w", err)
	}
	return n, nil
}

// hashPassword replaces the plain password with its bcrypt hash.
func hashPassword(user *models.AppUser) error {
	if user.Password == "" {
		return models.NewValidationError("password", "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return nil
}
