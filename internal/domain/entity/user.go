package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a cashier account. Store* fields are optional profile
// details; the printed receipt header comes from the store config.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Username     string         `gorm:"size:255;unique;not null" json:"username"`
	Email        string         `gorm:"size:255;unique;not null" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	Provider     string         `gorm:"size:50;default:'local'" json:"provider"`
	ProviderID   *string        `gorm:"size:255" json:"-"`
	Photo        *string        `gorm:"size:255" json:"photo,omitempty"`
	StoreName    *string        `gorm:"size:255" json:"store_name,omitempty"`
	StoreAddress *string        `gorm:"type:text" json:"store_address,omitempty"`
	StorePhone   *string        `gorm:"size:50" json:"store_phone,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:UserID" json:"-"`
	Receipts []Receipt `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
