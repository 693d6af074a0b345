package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"anoa.com/weddingsalon/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Designer{},
		&entity.Dress{},
	)
}

type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedAdminUser creates an ADMIN account unless the username or email is
// already taken. It reports whether a user was created.
func SeedAdminUser(ctx context.Context, db *gorm.DB, seed AdminSeed) (bool, error) {
	if seed.Username == "" || seed.Email == "" || seed.Password == "" {
		return false, errors.New("username, email and password are required")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).
		Where("username = ? OR email = ?", seed.Username, seed.Email).
		Count(&count).Error; err != nil {
		return false, err
	}

	if count > 0 {
		slog.InfoContext(ctx, "admin user already exists, skipping seed", "username", seed.Username)
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	admin := entity.User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: string(hashed),
		Role:         entity.RoleAdmin,
	}

	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "admin user seeded", "username", admin.Username, "email", admin.Email)
	return true, nil
}
