package entity

import "database/sql"

// Ticket is one purchase of one or more raffle tickets. Append-only; the
// owning raffle's sold counter is incremented in the same transaction.
type Ticket struct {
	Base

	RaffleID string `gorm:"index;not null"`
	Raffle   Raffle `gorm:"foreignKey:RaffleID"`

	BuyerID   string `gorm:"index;not null"`
	BuyerUser User   `gorm:"foreignKey:BuyerID"`

	Quantity    int
	TotalAmount float64
	TxRef       sql.NullString
}
