package model

type Notification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	IsRead  bool   `json:"is_read"`
}

type GetMyNotificationsRequest struct {
	Limit int `json:"limit"`
}

type GetMyNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}
