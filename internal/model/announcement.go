package model

import "time"

type RaffleAnnouncement struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	PrizeValue      float64  `json:"prize_value"`
	TicketPrice     float64  `json:"ticket_price"`
	MaxTickets      int      `json:"max_tickets"`
	StartTime       string   `json:"start_time"`
	Category        Category `json:"category"`
	CreatedBy       string   `json:"created_by"`
	Active          bool     `json:"active"`
	InterestedCount int      `json:"interested_count"`
}

type CreateAnnouncementRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PrizeValue  float64   `json:"prize_value"`
	TicketPrice float64   `json:"ticket_price"`
	MaxTickets  int       `json:"max_tickets"`
	StartTime   time.Time `json:"start_time"`
	CategoryID  string    `json:"category_id"`
}

type CreateAnnouncementResponse struct {
	Announcement RaffleAnnouncement `json:"announcement"`
}

type GetAnnouncementsRequest struct {
	CategoryID string `json:"category_id"`
}

type GetAnnouncementsResponse struct {
	Announcements []RaffleAnnouncement `json:"announcements"`
}

const (
	InterestActionAdd    = "add"
	InterestActionRemove = "remove"
)

type ToggleInterestRequest struct {
	AnnouncementID string `json:"announcement_id"`
	Action         string `json:"action"`
}

type ToggleInterestResponse struct {
	InterestedCount int `json:"interested_count"`
}

type GetMyInterestsRequest struct{}

type GetMyInterestsResponse struct {
	AnnouncementIDs []string `json:"announcement_ids"`
}
