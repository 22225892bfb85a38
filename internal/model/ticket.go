package model

type Ticket struct {
	ID          string  `json:"id"`
	RaffleID    string  `json:"raffle_id"`
	BuyerID     string  `json:"buyer_id"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
	TxRef       string  `json:"tx_ref,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type BuyTicketsRequest struct {
	RaffleID    string  `json:"raffle_id"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
	TxRef       string  `json:"tx_ref"`
}

type BuyTicketsResponse struct {
	Ticket Ticket `json:"ticket"`
}

type GetRaffleTicketsRequest struct {
	RaffleID string `json:"raffle_id"`
}

type GetRaffleTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type GetMyTicketsRequest struct{}

type GetMyTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}
