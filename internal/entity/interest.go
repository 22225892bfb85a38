package entity

import "time"

// Interest marks that a session wants to be notified when an announcement is
// activated. The pair is unique; inserting a duplicate is a no-op.
type Interest struct {
	SessionID      string `gorm:"primaryKey"`
	AnnouncementID string `gorm:"primaryKey"`

	Announcement RaffleAnnouncement `gorm:"foreignKey:AnnouncementID"`

	CreatedAt time.Time
}
