package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Club struct {
	ClubID    uuid.UUID `gorm:"column:club_id;type:uuid;primaryKey" json:"club_id"`
	ClubName  string    `gorm:"column:club_name;not null;uniqueIndex" json:"club_name"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Club) TableName() string {
	return "Clubs"
}

// BeforeCreate ensures club_id is set for DBs without default uuid.
func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ClubID == uuid.Nil {
		c.ClubID = uuid.New()
	}
	return nil
}
