package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/cloudbox/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Folder names must start with a letter or digit and may not contain
// filesystem metacharacters.
var folderNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][^*/><?\\|:]*$`)

const rootFolderName = "Root"

// FolderService owns folder lifecycle and the hierarchy invariants: one
// root per user, name uniqueness within a parent, root immutability.
type FolderService struct {
	DB *gorm.DB
}

func NewFolderService(db *gorm.DB) *FolderService {
	return &FolderService{DB: db}
}

// withTx rebinds the service to a transaction handle so callers can join
// folder writes to their own atomic unit.
func (s *FolderService) withTx(tx *gorm.DB) *FolderService {
	return &FolderService{DB: tx}
}

// CreateRoot creates the single root folder for a new account. Called once
// at registration; a second call fails with ErrRootFolderAlreadyExists.
func (s *FolderService) CreateRoot(ctx context.Context, userID uuid.UUID) (*models.Folder, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	var existing models.Folder
	err := s.DB.WithContext(ctx).First(&existing, "owner_id = ? AND is_root = ?", userID, true).Error
	if err == nil {
		return nil, ErrRootFolderAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	root := models.Folder{
		Name:         rootFolderName,
		OwnerID:      userID,
		IsRoot:       true,
		CreationDate: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&root).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRootFolderAlreadyExists
		}
		return nil, err
	}
	return &root, nil
}

// CreateChild creates a folder under parentID for its owner.
func (s *FolderService) CreateChild(ctx context.Context, user *models.User, parentID uuid.UUID, name string) (*models.Folder, error) {
	if parentID == uuid.Nil {
		return nil, ErrInvalidArgument
	}
	if err := validateFolderName(name); err != nil {
		return nil, err
	}

	parent, err := s.getFolder(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(parent, user.ID); err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, user.ID, &parentID, name, uuid.Nil); err != nil {
		return nil, err
	}

	folder := models.Folder{
		Name:           name,
		OwnerID:        user.ID,
		ParentFolderID: &parentID,
		CreationDate:   time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFolderNameNotUnique
		}
		return nil, err
	}
	return &folder, nil
}

// ListChildren returns the summaries of all folders directly under folderID.
func (s *FolderService) ListChildren(ctx context.Context, user *models.User, folderID uuid.UUID) ([]models.FolderSummary, error) {
	if folderID == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	parent, err := s.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(parent, user.ID); err != nil {
		return nil, err
	}

	var children []models.Folder
	if err := s.DB.WithContext(ctx).
		Where("parent_folder_id = ?", folderID).
		Order("name ASC").
		Find(&children).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.FolderSummary, len(children))
	for i := range children {
		summaries[i] = children[i].Summary()
	}
	return summaries, nil
}

// Rename changes a non-root folder's name, keeping it unique among its
// siblings.
func (s *FolderService) Rename(ctx context.Context, user *models.User, folderID uuid.UUID, newName string) (*models.FolderSummary, error) {
	if folderID == uuid.Nil {
		return nil, ErrInvalidArgument
	}
	if err := validateFolderName(newName); err != nil {
		return nil, err
	}

	folder, err := s.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(folder, user.ID); err != nil {
		return nil, err
	}
	if folder.IsRoot {
		return nil, ErrRootFolderImmutable
	}

	if err := s.checkNameUnique(ctx, user.ID, folder.ParentFolderID, newName, folder.ID); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Model(folder).
		Update("name", newName).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFolderNameNotUnique
		}
		return nil, err
	}

	summary := folder.Summary()
	summary.Name = newName
	return &summary, nil
}

// Delete removes a non-root folder. Folders that still contain subfolders
// or files are refused; there is no cascade.
func (s *FolderService) Delete(ctx context.Context, user *models.User, folderID uuid.UUID) error {
	if folderID == uuid.Nil {
		return ErrInvalidArgument
	}

	folder, err := s.getFolder(ctx, folderID)
	if err != nil {
		return err
	}
	if err := Authorize(folder, user.ID); err != nil {
		return err
	}
	if folder.IsRoot {
		return ErrRootFolderImmutable
	}

	var childCount int64
	if err := s.DB.WithContext(ctx).
		Model(&models.Folder{}).
		Where("parent_folder_id = ?", folderID).
		Count(&childCount).Error; err != nil {
		return err
	}

	var fileCount int64
	if err := s.DB.WithContext(ctx).
		Model(&models.File{}).
		Where("folder_id = ?", folderID).
		Count(&fileCount).Error; err != nil {
		return err
	}

	if childCount > 0 || fileCount > 0 {
		return ErrFolderNotEmpty
	}

	return s.DB.WithContext(ctx).Delete(folder).Error
}

func (s *FolderService) getFolder(ctx context.Context, folderID uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	if err := s.DB.WithContext(ctx).First(&folder, "id = ?", folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &folder, nil
}

// checkNameUnique enforces name uniqueness within (owner, parent). The
// excluded id lets a rename skip the folder's own row. This lookup is an
// optimization; the composite unique index is the authoritative check.
func (s *FolderService) checkNameUnique(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name string, exclude uuid.UUID) error {
	query := s.DB.WithContext(ctx).
		Model(&models.Folder{}).
		Where("owner_id = ? AND name = ?", ownerID, name)
	if parentID == nil {
		query = query.Where("parent_folder_id IS NULL")
	} else {
		query = query.Where("parent_folder_id = ?", *parentID)
	}
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrFolderNameNotUnique
	}
	return nil
}

func validateFolderName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidArgument
	}
	if !folderNamePattern.MatchString(name) {
		return ErrInvalidFolderName
	}
	return nil
}
