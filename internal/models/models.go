package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 string     `gorm:"primaryKey;type:uuid"       json:"id"`
	UserName           string     `gorm:"not null"                   json:"userName"`
	Email              string     `gorm:"not null"                   json:"email"`
	NormalizedUserName string     `gorm:"index;not null"             json:"-"`
	NormalizedEmail    string     `gorm:"uniqueIndex;not null"       json:"-"`
	PasswordHash       string     `json:"-"`
	Status             string     `gorm:"not null;default:Active"    json:"status"`
	AccessFailedCount  int        `gorm:"not null;default:0"         json:"-"`
	LockoutEnd         *time.Time `json:"-"`
	ResetTokenHash     string     `json:"-"`
	ResetTokenExpires  *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	Roles              []Role     `gorm:"many2many:user_roles"       json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

type File struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"                      json:"id"`
	Name          string    `gorm:"not null"                                      json:"name"`
	Description   string    `json:"description"`
	FileSize      int64     `gorm:"not null"                                      json:"fileSize"`
	FileType      string    `json:"fileType"`
	Content       []byte    `gorm:"type:bytea"                                    json:"-"`
	VersionNumber int       `gorm:"not null;default:1"                            json:"versionNumber"`
	FolderID      *uint     `json:"folderId"`
	SenderID      string    `gorm:"type:uuid;index;not null"                      json:"senderId"`
	ReceiverID    string    `gorm:"type:uuid;index;not null"                      json:"receiverId"`
	Permission    string    `gorm:"not null;default:Public"                       json:"permission"`
	CreatedAt     time.Time `gorm:"index"                                         json:"createdAt"`
	UpdatedAt     time.Time `json:"-"`

	Folder   *Folder `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE"    json:"-"`
	Sender   *User   `gorm:"foreignKey:SenderID;constraint:OnDelete:RESTRICT"   json:"-"`
	Receiver *User   `gorm:"foreignKey:ReceiverID;constraint:OnDelete:RESTRICT" json:"-"`
}

type Folder struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name           string    `gorm:"not null"                  json:"name"`
	Description    string    `json:"description"`
	ParentFolderID *uint     `json:"parentFolderId"`
	SenderID       string    `gorm:"type:uuid;index;not null"  json:"senderId"`
	ReceiverID     string    `gorm:"type:uuid;index;not null"  json:"receiverId"`
	Permission     string    `gorm:"not null;default:Public"   json:"permission"`
	CreatedAt      time.Time `gorm:"index"                     json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`

	ParentFolder *Folder  `gorm:"foreignKey:ParentFolderID;constraint:OnDelete:CASCADE" json:"-"`
	ChildFolders []Folder `gorm:"foreignKey:ParentFolderID"                             json:"-"`
	Files        []File   `gorm:"foreignKey:FolderID"                                   json:"-"`
	Sender       *User    `gorm:"foreignKey:SenderID;constraint:OnDelete:RESTRICT"      json:"-"`
	Receiver     *User    `gorm:"foreignKey:ReceiverID;constraint:OnDelete:RESTRICT"    json:"-"`
}

type Tag struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`
}

// ItemTag joins a tag to a File or Folder; ItemType discriminates which table
// ItemID points into.
type ItemTag struct {
	ItemID   uint   `gorm:"primaryKey" json:"itemId"`
	ItemType string `gorm:"primaryKey" json:"itemType"`
	TagID    uint   `gorm:"primaryKey" json:"tagId"`

	Tag *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}
