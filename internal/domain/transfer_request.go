package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransferStatus string

const (
	StatusPendingApproval TransferStatus = "PENDING_APPROVAL"
	StatusInMarket        TransferStatus = "IN_MARKET"
	StatusCompleted       TransferStatus = "COMPLETED"
	StatusCancelled       TransferStatus = "CANCELLED"
)

// TransferStatuses lists every status in workflow order.
var TransferStatuses = []TransferStatus{StatusPendingApproval, StatusInMarket, StatusCompleted, StatusCancelled}

// Terminal reports whether no further transition is possible.
func (s TransferStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s TransferStatus) Valid() bool {
	for _, v := range TransferStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type TransferType string

const (
	TransferDirectClub    TransferType = "DIRECT_CLUB"
	TransferGeneralMarket TransferType = "GENERAL_MARKET"
)

// TransferField names the columns a TransferStore can be queried by.
type TransferField string

const (
	FieldPlayerID          TransferField = "player_id"
	FieldSourceClubID      TransferField = "source_club_id"
	FieldDestinationClubID TransferField = "destination_club_id"
	FieldStatus            TransferField = "status"
)

func (f TransferField) Valid() bool {
	switch f {
	case FieldPlayerID, FieldSourceClubID, FieldDestinationClubID, FieldStatus:
		return true
	}
	return false
}

// TransferRequest is the authoritative transfer record. Display names are
// resolved at read time and never stored here.
type TransferRequest struct {
	TransferID           uuid.UUID           `gorm:"column:transfer_id;type:uuid;primaryKey" json:"transfer_id"`
	PlayerID             uuid.UUID           `gorm:"column:player_id;type:uuid;not null;index" json:"player_id"`
	SourceClubID         uuid.UUID           `gorm:"column:source_club_id;type:uuid;not null;index" json:"source_club_id"`
	DestinationClubID    *uuid.UUID          `gorm:"column:destination_club_id;type:uuid;index" json:"destination_club_id"`
	TransferType         TransferType        `gorm:"column:transfer_type;type:varchar(20);not null" json:"transfer_type"`
	Status               TransferStatus      `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	ReleaseFee           decimal.NullDecimal `gorm:"column:release_fee;type:decimal(18,2)" json:"release_fee"`
	TransferFee          decimal.NullDecimal `gorm:"column:transfer_fee;type:decimal(18,2)" json:"transfer_fee"`
	Remarks              string              `gorm:"column:remarks" json:"remarks"`
	RequestDate          *time.Time          `gorm:"column:request_date" json:"request_date"`
	ApprovedBySourceDate *time.Time          `gorm:"column:approved_by_source_date" json:"approved_by_source_date"`
	CompletedDate        *time.Time          `gorm:"column:completed_date" json:"completed_date"`
	CancelledDate        *time.Time          `gorm:"column:cancelled_date" json:"cancelled_date"`
	CreatedAt            time.Time           `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt            time.Time           `gorm:"column:updatedAt" json:"updatedAt"`
}

func (TransferRequest) TableName() string {
	return "TransferRequests"
}

// BeforeCreate sets transfer_id if not set.
func (t *TransferRequest) BeforeCreate(tx *gorm.DB) error {
	if t.TransferID == uuid.Nil {
		t.TransferID = uuid.New()
	}
	return nil
}

// Clone returns a copy that shares no pointers with t.
func (t TransferRequest) Clone() TransferRequest {
	out := t
	out.DestinationClubID = cloneUUID(t.DestinationClubID)
	out.RequestDate = cloneTime(t.RequestDate)
	out.ApprovedBySourceDate = cloneTime(t.ApprovedBySourceDate)
	out.CompletedDate = cloneTime(t.CompletedDate)
	out.CancelledDate = cloneTime(t.CancelledDate)
	return out
}

func cloneUUID(u *uuid.UUID) *uuid.UUID {
	if u == nil {
		return nil
	}
	v := *u
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
