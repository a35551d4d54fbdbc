package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PositionForward    = "FORWARD"
	PositionMidfielder = "MIDFIELDER"
	PositionDefender   = "DEFENDER"
	PositionGoalkeeper = "GOALKEEPER"
)

var Positions = []string{PositionForward, PositionMidfielder, PositionDefender, PositionGoalkeeper}

func IsValidPosition(p string) bool {
	for _, v := range Positions {
		if v == p {
			return true
		}
	}
	return false
}

// Player is a registered player. Only ClubID is changed by transfers.
type Player struct {
	PlayerID  uuid.UUID  `gorm:"column:player_id;type:uuid;primaryKey" json:"player_id"`
	Name      string     `gorm:"column:name;not null" json:"name"`
	Age       int        `gorm:"column:age" json:"age"`
	Jersey    int        `gorm:"column:jersey" json:"jersey"`
	Position  string     `gorm:"column:position;type:varchar(20)" json:"position"`
	Injured   bool       `gorm:"column:injured;not null;default:false" json:"injured"`
	ClubID    *uuid.UUID `gorm:"column:club_id;type:uuid;index" json:"club_id"`
	CreatedAt time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Player) TableName() string {
	return "Players"
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.PlayerID == uuid.Nil {
		p.PlayerID = uuid.New()
	}
	return nil
}
