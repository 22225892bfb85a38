package entity

import (
	"context"

	"github.com/rafflehub/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Category{},
		&RaffleAnnouncement{},
		&Raffle{},
		&Interest{},
		&Ticket{},
		&Notification{},
	)
}
