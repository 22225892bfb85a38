package repository

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type InterestRepository interface {
	// Add inserts the (session, announcement) pair. It reports whether a new
	// record was actually created; inserting a duplicate is a no-op.
	Add(ctx context.Context, interest *entity.Interest) (bool, error)

	// Remove deletes the pair and reports whether a record existed.
	Remove(ctx context.Context, sessionID, announcementID string) (bool, error)

	GetSessionIDsByAnnouncementID(ctx context.Context, announcementID string) ([]string, error)
	GetAnnouncementIDsBySessionID(ctx context.Context, sessionID string) ([]string, error)
	DeleteByAnnouncementID(ctx context.Context, announcementID string) error
}

type interestRepository struct{}

func NewInterestRepository() *interestRepository {
	return &interestRepository{}
}

func (r *interestRepository) Add(ctx context.Context, interest *entity.Interest) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(interest)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *interestRepository) Remove(ctx context.Context, sessionID, announcementID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("session_id=? AND announcement_id=?", sessionID, announcementID).
		Delete(&entity.Interest{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *interestRepository) GetSessionIDsByAnnouncementID(
	ctx context.Context, announcementID string,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Interest{}).
		Where("announcement_id=?", announcementID).
		Distinct().Pluck("session_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *interestRepository) GetAnnouncementIDsBySessionID(
	ctx context.Context, sessionID string,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Interest{}).
		Where("session_id=?", sessionID).
		Pluck("announcement_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *interestRepository) DeleteByAnnouncementID(ctx context.Context, announcementID string) error {
	return xcontext.DB(ctx).
		Where("announcement_id=?", announcementID).
		Delete(&entity.Interest{}).Error
}
