package stores

import (
	"context"

	"clubhub-backend/internal/application/transfers"

	"gorm.io/gorm"
)

// GormTxRunner hands the workflow engine stores bound to a single gorm transaction.
type GormTxRunner struct {
	DB *gorm.DB
}

func (g *GormTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, r transfers.Repos) error) error {
	return g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, transfers.Repos{
			Transfers: &GormTransferStore{DB: tx},
			Players:   &GormPlayerStore{DB: tx},
			Events:    &GormEventStore{DB: tx},
		})
	})
}

// NewGormService wires a transfer engine onto one database.
func NewGormService(db *gorm.DB) *transfers.Service {
	return &transfers.Service{
		Transfers: &GormTransferStore{DB: db},
		Players:   &GormPlayerStore{DB: db},
		Clubs:     &GormClubStore{DB: db},
		Events:    &GormEventStore{DB: db},
		Tx:        &GormTxRunner{DB: db},
	}
}
