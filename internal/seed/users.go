package seed

import (
	"context"
	"errors"
	"fmt"

	"campusrun/internal/store"
	"campusrun/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type demoUserSeed struct {
	ID          string
	Email       string
	DisplayName string
	Password    string
}

var demoUsers = []demoUserSeed{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "ava.williams+demo1@example.edu", DisplayName: "Ava W.", Password: "campusrun-demo"},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "liam.johnson+demo2@example.edu", DisplayName: "Liam J.", Password: "campusrun-demo"},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "noah.brown+demo3@example.edu", DisplayName: "Noah B.", Password: "campusrun-demo"},
	{ID: "44444444-4444-4444-4444-444444444444", Email: "mia.davis+demo4@example.edu", DisplayName: "Mia D.", Password: "campusrun-demo"},
}

func SeedDemoUsers(ctx context.Context, userRepo *store.UserRepository) error {
	for _, demoUser := range demoUsers {
		_, err := userRepo.User(ctx, demoUser.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrUserNotFound) {
			return fmt.Errorf("failed to fetch demo user %s: %w", demoUser.ID, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoUser.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}

		newUser := &types.User{
			ID:           demoUser.ID,
			Email:        demoUser.Email,
			DisplayName:  demoUser.DisplayName,
			PasswordHash: string(hash),
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return fmt.Errorf("failed to create demo user %s: %w", demoUser.ID, err)
		}
	}

	return nil
}
