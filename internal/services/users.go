package services

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudbox/backend/internal/models"
	"github.com/cloudbox/backend/pkg/utils"
	"gorm.io/gorm"
)

// RegisterInput is the signup payload after transport-level decoding.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService handles account creation and credential checks. Registration
// also provisions the account's root folder so every user starts with a
// usable hierarchy.
type UserService struct {
	DB      *gorm.DB
	Folders *FolderService
}

func NewUserService(db *gorm.DB, folders *FolderService) *UserService {
	return &UserService{DB: db, Folders: folders}
}

// Register creates the account and its root folder in one transaction, so
// a failed root creation cannot leave behind a user row that permanently
// occupies the email with no usable hierarchy.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, ErrInvalidArgument
	}
	if !strings.Contains(input.Email, "@") {
		return nil, ErrInvalidArgument
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailAlreadyExists
			}
			return err
		}
		_, err := s.Folders.withTx(tx).CreateRoot(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate resolves the account for the given credentials. Unknown
// email and wrong password both return ErrInvalidCredentials; the caller
// cannot tell which.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
