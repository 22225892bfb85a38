package entity

import (
	"database/sql"
	"time"
)

// RaffleAnnouncement is a raffle that has not started yet. The activation
// cron job turns it into a Raffle once StartTime arrives, then flips Active
// to false. An inactive announcement is never activated again.
type RaffleAnnouncement struct {
	Base

	Title       string
	Description string
	PrizeValue  float64
	TicketPrice float64
	MaxTickets  int
	StartTime   time.Time

	CategoryID sql.NullString
	Category   Category `gorm:"foreignKey:CategoryID"`

	CreatedBy     string `gorm:"not null"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`

	Active          bool `gorm:"index"`
	InterestedCount int
}
