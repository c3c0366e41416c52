package initializers

import (
	"context"
	"errors"
	"log"
	"os"

	"gymdash-api/models"
	"gymdash-api/repository"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaults is called once on application start to ensure the first
// superuser account exists, so a fresh deployment is immediately usable.
func InitDefaults(ctx context.Context, users *repository.UsersRepository) error {
	email := os.Getenv("FIRST_SUPERUSER_EMAIL")
	password := os.Getenv("FIRST_SUPERUSER_PASSWORD")
	if email == "" || password == "" {
		log.Println("FIRST_SUPERUSER_EMAIL/PASSWORD not set, skipping superuser seeding")
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, models.User{
		Email:          email,
		FullName:       "Admin",
		HashedPassword: string(hashed),
		Role:           models.RoleAdmin,
		IsActive:       true,
		IsSuperuser:    true,
	})
	if err != nil {
		return err
	}
	log.Println("Seeded first superuser:", email)
	return nil
}
