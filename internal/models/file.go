package models

import "github.com/google/uuid"

// File stores the encrypted content together with the base64-encoded key
// and IV that protect it. Deleting the row destroys the only copy of the
// key, so a delete is also cryptographic erasure. Size is the plaintext
// length recorded before encryption.
type File struct {
	BaseModel
	Name          string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_files_name_type_folder"`
	ContentType   string    `json:"contentType" gorm:"type:varchar(255);not null;uniqueIndex:idx_files_name_type_folder"`
	Content       []byte    `json:"-" gorm:"type:bytea;not null"`
	Size          int64     `json:"size" gorm:"not null"`
	OwnerID       uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	FolderID      uuid.UUID `json:"folderID" gorm:"type:uuid;not null;index;uniqueIndex:idx_files_name_type_folder"`
	EncryptionKey string    `json:"-" gorm:"type:text;not null"`
	IV            string    `json:"-" gorm:"type:text;not null"`
}

func (f *File) OwnerUUID() uuid.UUID {
	return f.OwnerID
}

// FileSummary is the listing view: metadata only, no content, no key
// material.
type FileSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
}

func (f *File) Summary() FileSummary {
	return FileSummary{
		ID:          f.ID,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
	}
}
