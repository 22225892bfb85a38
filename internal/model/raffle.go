package model

type Raffle struct {
	ID                string   `json:"id"`
	AnnouncementID    string   `json:"announcement_id,omitempty"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	PrizeValue        float64  `json:"prize_value"`
	TicketPrice       float64  `json:"ticket_price"`
	MaxTickets        int      `json:"max_tickets"`
	SoldTickets       int      `json:"sold_tickets"`
	Category          Category `json:"category"`
	CreatedBy         string   `json:"created_by"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	Active            bool     `json:"active"`
	WinnerID          string   `json:"winner_id,omitempty"`
	ApprovedByCreator bool     `json:"approved_by_creator"`
	ApprovedByWinner  bool     `json:"approved_by_winner"`
	State             string   `json:"state"`
}

type CreateRaffleRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PrizeValue  float64 `json:"prize_value"`
	TicketPrice float64 `json:"ticket_price"`
	MaxTickets  int     `json:"max_tickets"`
	CategoryID  string  `json:"category_id"`
}

type CreateRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type GetRaffleRequest struct {
	RaffleID string `json:"raffle_id"`
}

type GetRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type GetRafflesRequest struct {
	CreatedBy string `json:"created_by"`
}

type GetRafflesResponse struct {
	Raffles []Raffle `json:"raffles"`
}

type AssignWinnerRequest struct {
	RaffleID string `json:"raffle_id"`
	WinnerID string `json:"winner_id"`
}

type AssignWinnerResponse struct {
	Raffle Raffle `json:"raffle"`
}

type ApproveRaffleRequest struct {
	RaffleID string `json:"raffle_id"`
}

type ApproveRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}
