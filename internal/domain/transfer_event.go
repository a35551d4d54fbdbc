package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventSubmitted            = "SUBMITTED"
	EventApproved             = "APPROVED"
	EventPurchased            = "PURCHASED"
	EventCancelled            = "CANCELLED"
	EventReconciled           = "RECONCILED"
	EventPlayerReassignFailed = "PLAYER_REASSIGN_FAILED"
)

// TransferEvent is one entry in a transfer's audit trail.
type TransferEvent struct {
	EventID     uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	TransferID  uuid.UUID      `gorm:"column:transfer_id;type:uuid;not null;index" json:"transfer_id"`
	EventType   string         `gorm:"column:event_type;type:varchar(40);not null" json:"event_type"`
	ActorRole   string         `gorm:"column:actor_role" json:"actor_role"`
	ActorClubID *uuid.UUID     `gorm:"column:actor_club_id;type:uuid" json:"actor_club_id"`
	EventData   datatypes.JSON `gorm:"column:event_data;type:json" json:"event_data"`
	CreatedAt   time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (TransferEvent) TableName() string {
	return "TransferEvents"
}

func (e *TransferEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
