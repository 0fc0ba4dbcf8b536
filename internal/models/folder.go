package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a node in a user's directory tree. OwnerID is stamped once at
// creation and never changes; authorization is an equality check against it,
// not a walk up the tree.
type Folder struct {
	BaseModel
	Name           string     `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_folders_owner_parent_name"`
	OwnerID        uuid.UUID  `json:"-" gorm:"type:uuid;not null;index;uniqueIndex:idx_folders_owner_parent_name"`
	ParentFolderID *uuid.UUID `json:"parentFolderID,omitempty" gorm:"type:uuid;index;uniqueIndex:idx_folders_owner_parent_name"`
	IsRoot         bool       `json:"isRoot" gorm:"not null;default:false"`
	CreationDate   time.Time  `json:"creationDate" gorm:"not null"`

	Parent   *Folder  `json:"-" gorm:"foreignKey:ParentFolderID"`
	Children []Folder `json:"-" gorm:"foreignKey:ParentFolderID"`
	Files    []File   `json:"-" gorm:"foreignKey:FolderID"`
}

func (f *Folder) OwnerUUID() uuid.UUID {
	return f.OwnerID
}

// FolderSummary is the view returned to API callers; it never carries the
// owner id or tree internals.
type FolderSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creationDate"`
}

func (f *Folder) Summary() FolderSummary {
	return FolderSummary{
		ID:           f.ID,
		Name:         f.Name,
		CreationDate: f.CreationDate,
	}
}
