package entity

// Notification is one inbox message for one receiver.
type Notification struct {
	SnowFlakeBase

	ReceiverID string `gorm:"index;not null"`
	Title      string
	Content    string
	IsRead     bool
}
