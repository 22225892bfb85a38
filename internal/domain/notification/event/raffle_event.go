package event

import "github.com/rafflehub/backend/internal/model"

// RAFFLE CREATED EVENT
type RaffleCreatedEvent struct {
	model.Raffle
}

func (*RaffleCreatedEvent) Op() string {
	return "raffle_created"
}

// TICKET PURCHASED EVENT
type TicketPurchasedEvent struct {
	model.Ticket
	SoldTickets int `json:"sold_tickets"`
}

func (*TicketPurchasedEvent) Op() string {
	return "ticket_purchased"
}

// RAFFLE APPROVED EVENT
type RaffleApprovedEvent struct {
	RaffleID          string `json:"raffle_id"`
	ApprovedBy        string `json:"approved_by"`
	ApprovedByCreator bool   `json:"approved_by_creator"`
	ApprovedByWinner  bool   `json:"approved_by_winner"`
	State             string `json:"state"`
}

func (*RaffleApprovedEvent) Op() string {
	return "raffle_approved"
}
