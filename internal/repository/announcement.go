package repository

import (
	"context"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GetListAnnouncementFilter struct {
	CategoryID string
	ActiveOnly bool
}

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *entity.RaffleAnnouncement) error
	GetByID(ctx context.Context, id string) (*entity.RaffleAnnouncement, error)
	GetList(ctx context.Context, filter GetListAnnouncementFilter) ([]entity.RaffleAnnouncement, error)
	GetDueList(ctx context.Context, now time.Time) ([]entity.RaffleAnnouncement, error)
	DeactivateByID(ctx context.Context, id string) error
	ChangeInterestedCount(ctx context.Context, id string, delta int) error
}

type announcementRepository struct{}

func NewAnnouncementRepository() *announcementRepository {
	return &announcementRepository{}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *entity.RaffleAnnouncement) error {
	return xcontext.DB(ctx).Create(announcement).Error
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*entity.RaffleAnnouncement, error) {
	var result entity.RaffleAnnouncement
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *announcementRepository) GetList(
	ctx context.Context, filter GetListAnnouncementFilter,
) ([]entity.RaffleAnnouncement, error) {
	tx := xcontext.DB(ctx).Model(&entity.RaffleAnnouncement{})
	if filter.CategoryID != "" {
		tx = tx.Where("category_id=?", filter.CategoryID)
	}

	if filter.ActiveOnly {
		tx = tx.Where("active=?", true)
	}

	var result []entity.RaffleAnnouncement
	if err := tx.Order("start_time ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *announcementRepository) GetDueList(ctx context.Context, now time.Time) ([]entity.RaffleAnnouncement, error) {
	var result []entity.RaffleAnnouncement
	err := xcontext.DB(ctx).
		Where("active=? AND start_time <= ?", true, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeactivateByID flips the active flag off. The conditional update is the
// single-writer gate of the activation transition: only one caller can win
// it, so an announcement can never produce two raffles. It returns
// gorm.ErrRecordNotFound if the announcement was already inactive.
func (r *announcementRepository) DeactivateByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.RaffleAnnouncement{}).
		Where("id=? AND active=?", id, true).
		Update("active", false)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ChangeInterestedCount adds delta to the denormalized interested counter.
// The guard keeps the counter from going negative under concurrent removes.
func (r *announcementRepository) ChangeInterestedCount(ctx context.Context, id string, delta int) error {
	tx := xcontext.DB(ctx).Model(&entity.RaffleAnnouncement{}).
		Where("id=? AND interested_count + ? >= 0", id, delta).
		Update("interested_count", gorm.Expr("interested_count+?", delta))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
