package entity

import (
	"database/sql"
	"time"
)

// Raffle is a live, ticket-sellable raffle. It is created either by the
// activation cron job (from an announcement) or directly by its creator.
// Raffles are never deleted; once ended they become immutable history.
type Raffle struct {
	Base

	// AnnouncementID is set when this raffle was derived from an
	// announcement. The unique index is the storage-level guard against a
	// double activation.
	AnnouncementID sql.NullString `gorm:"uniqueIndex"`

	Title       string
	Description string
	PrizeValue  float64
	TicketPrice float64
	MaxTickets  int
	SoldTickets int

	CategoryID sql.NullString
	Category   Category `gorm:"foreignKey:CategoryID"`

	CreatedBy     string `gorm:"not null"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`

	StartTime time.Time
	EndTime   time.Time
	Active    bool `gorm:"index"`

	WinnerID   sql.NullString
	WinnerUser User `gorm:"foreignKey:WinnerID"`

	ApprovedByCreator bool
	ApprovedByWinner  bool
}

type RaffleState string

const (
	RaffleWinnerPending     = RaffleState("winner_pending")
	RaffleAwaitingApprovals = RaffleState("awaiting_approvals")
	RafflePartiallyApproved = RaffleState("partially_approved")
	RaffleSettled           = RaffleState("settled")
)

// State derives the approval state machine position from the winner and the
// two approval flags.
func (r *Raffle) State() RaffleState {
	switch {
	case !r.WinnerID.Valid:
		return RaffleWinnerPending
	case r.ApprovedByCreator && r.ApprovedByWinner:
		return RaffleSettled
	case r.ApprovedByCreator || r.ApprovedByWinner:
		return RafflePartiallyApproved
	default:
		return RaffleAwaitingApprovals
	}
}
