package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudbox/backend/internal/models"
)

func TestRegisterCreatesUserAndRootFolder(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, NewFolderService(db))
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "Alice@Example.com",
		Password:  "s3cret-password",
	})
	if err != nil {
		t.Fatalf("failed registering: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "s3cret-password" {
		t.Fatal("password must not be stored in clear")
	}

	var root models.Folder
	if err := db.First(&root, "owner_id = ? AND is_root = ?", user.ID, true).Error; err != nil {
		t.Fatalf("expected a root folder for the new user: %v", err)
	}
}

func TestRegisterRollsBackUserWhenRootCreationFails(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, NewFolderService(db))
	ctx := context.Background()

	// Sabotage root creation; the user insert must not survive it.
	if err := db.Exec("DROP TABLE folders").Error; err != nil {
		t.Fatalf("failed dropping folders table: %v", err)
	}

	_, err := svc.Register(ctx, RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "s3cret-password",
	})
	if err == nil {
		t.Fatal("expected registration to fail without a folders table")
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("failed counting users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no user rows after failed registration, got %d", count)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, NewFolderService(db))
	ctx := context.Background()

	input := RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "s3cret-password",
	}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("failed registering: %v", err)
	}

	if _, err := svc.Register(ctx, input); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, NewFolderService(db))
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing first name", RegisterInput{LastName: "S", Email: "a@b.com", Password: "x"}},
		{"missing last name", RegisterInput{FirstName: "A", Email: "a@b.com", Password: "x"}},
		{"missing email", RegisterInput{FirstName: "A", LastName: "S", Password: "x"}},
		{"missing password", RegisterInput{FirstName: "A", LastName: "S", Email: "a@b.com"}},
		{"email without at sign", RegisterInput{FirstName: "A", LastName: "S", Email: "not-an-email", Password: "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.input); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db, NewFolderService(db))
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "s3cret-password",
	})
	if err != nil {
		t.Fatalf("failed registering: %v", err)
	}

	user, err := svc.Authenticate(ctx, "alice@example.com", "s3cret-password")
	if err != nil {
		t.Fatalf("failed authenticating: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "unknown@example.com", "s3cret-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
