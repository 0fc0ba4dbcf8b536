package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/cloudbox/backend/internal/models"
	"github.com/cloudbox/backend/pkg/filecrypt"
	"github.com/cloudbox/backend/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const fileKeyBits = 128

// UploadInput carries everything a caller must supply to store a file.
// The recorded size is derived from Content, not supplied by the caller.
type UploadInput struct {
	Name        string
	ContentType string
	Content     []byte
}

// DownloadResult is a decrypted file ready to be served.
type DownloadResult struct {
	Name        string
	ContentType string
	Content     []byte
	Size        int64
}

// FileService encrypts file content at rest with a fresh key and IV per
// file and never hands key material past the package boundary.
type FileService struct {
	DB *gorm.DB
}

func NewFileService(db *gorm.DB) *FileService {
	return &FileService{DB: db}
}

// Upload encrypts the content and stores it in folderID. Files are unique
// per (name, content type) within a folder.
func (s *FileService) Upload(ctx context.Context, user *models.User, folderID uuid.UUID, input UploadInput) (*models.FileSummary, error) {
	if folderID == uuid.Nil {
		return nil, ErrInvalidArgument
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.ContentType) == "" || input.Content == nil {
		return nil, ErrIncompleteFileDetails
	}

	folder, err := s.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(folder, user.ID); err != nil {
		return nil, err
	}

	if err := s.checkFileUnique(ctx, folderID, input.Name, input.ContentType, uuid.Nil); err != nil {
		return nil, err
	}

	key, err := filecrypt.GenerateKey(fileKeyBits)
	if err != nil {
		return nil, err
	}
	iv, err := filecrypt.GenerateIV()
	if err != nil {
		return nil, err
	}
	ciphertext, err := filecrypt.Encrypt(filecrypt.AlgorithmAESCBC, key, iv, input.Content)
	if err != nil {
		return nil, err
	}

	file := models.File{
		Name:          input.Name,
		ContentType:   input.ContentType,
		Content:       ciphertext,
		Size:          int64(len(input.Content)),
		OwnerID:       user.ID,
		FolderID:      folderID,
		EncryptionKey: base64.StdEncoding.EncodeToString(key),
		IV:            base64.StdEncoding.EncodeToString(iv),
	}
	if err := s.DB.WithContext(ctx).Create(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFileAlreadyExists
		}
		return nil, err
	}

	summary := file.Summary()
	return &summary, nil
}

// Download decrypts and returns the file content.
func (s *FileService) Download(ctx context.Context, user *models.User, fileID uuid.UUID) (*DownloadResult, error) {
	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(file, user.ID); err != nil {
		return nil, err
	}

	key, err := base64.StdEncoding.DecodeString(file.EncryptionKey)
	if err != nil {
		return nil, err
	}
	iv, err := base64.StdEncoding.DecodeString(file.IV)
	if err != nil {
		return nil, err
	}
	plaintext, err := filecrypt.Decrypt(filecrypt.AlgorithmAESCBC, key, iv, file.Content)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{
		Name:        file.Name,
		ContentType: file.ContentType,
		Content:     plaintext,
		Size:        file.Size,
	}, nil
}

// Delete removes the file row. The encryption key lives only in that row,
// so the ciphertext is unrecoverable afterwards.
func (s *FileService) Delete(ctx context.Context, user *models.User, fileID uuid.UUID) error {
	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return err
	}
	if err := Authorize(file, user.ID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(file).Error
}

// Move relocates a file into another of the user's folders. The
// (name, content type) uniqueness rule is re-checked against the
// destination.
func (s *FileService) Move(ctx context.Context, user *models.User, fileID, destinationID uuid.UUID) (*models.FileSummary, error) {
	if destinationID == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	file, err := s.getFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(file, user.ID); err != nil {
		return nil, err
	}

	destination, err := s.getFolder(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(destination, user.ID); err != nil {
		return nil, err
	}

	if file.FolderID != destinationID {
		if err := s.checkFileUnique(ctx, destinationID, file.Name, file.ContentType, file.ID); err != nil {
			return nil, err
		}
		if err := s.DB.WithContext(ctx).
			Model(file).
			Update("folder_id", destinationID).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrFileAlreadyExists
			}
			return nil, err
		}
	}

	summary := file.Summary()
	return &summary, nil
}

// ListByFolder returns a page of file summaries for the folder, ordered by
// name. The total count supports pagination envelopes.
func (s *FileService) ListByFolder(ctx context.Context, user *models.User, folderID uuid.UUID, p utils.PaginationParams) ([]models.FileSummary, int64, error) {
	if folderID == uuid.Nil {
		return nil, 0, ErrInvalidArgument
	}

	folder, err := s.getFolder(ctx, folderID)
	if err != nil {
		return nil, 0, err
	}
	if err := Authorize(folder, user.ID); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.DB.WithContext(ctx).
		Model(&models.File{}).
		Where("folder_id = ?", folderID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.DB.WithContext(ctx).
		Select("id", "name", "content_type", "size", "owner_id", "folder_id", "created_at", "updated_at").
		Where("folder_id = ?", folderID).
		Order("name ASC")

	var files []models.File
	if err := utils.ApplyPagination(query, p).Find(&files).Error; err != nil {
		return nil, 0, err
	}

	summaries := make([]models.FileSummary, len(files))
	for i := range files {
		if err := Authorize(&files[i], user.ID); err != nil {
			return nil, 0, err
		}
		summaries[i] = files[i].Summary()
	}
	return summaries, total, nil
}

func (s *FileService) getFile(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	if fileID == uuid.Nil {
		return nil, ErrInvalidArgument
	}
	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (s *FileService) getFolder(ctx context.Context, folderID uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	if err := s.DB.WithContext(ctx).First(&folder, "id = ?", folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &folder, nil
}

// checkFileUnique enforces (name, content type) uniqueness within a folder.
// Like the folder check this is advisory; the composite index settles races.
func (s *FileService) checkFileUnique(ctx context.Context, folderID uuid.UUID, name, contentType string, exclude uuid.UUID) error {
	query := s.DB.WithContext(ctx).
		Model(&models.File{}).
		Where("folder_id = ? AND name = ? AND content_type = ?", folderID, name, contentType)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrFileAlreadyExists
	}
	return nil
}
