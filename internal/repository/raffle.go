package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type RaffleRepository interface {
	Create(ctx context.Context, raffle *entity.Raffle) error
	GetByID(ctx context.Context, id string) (*entity.Raffle, error)
	GetActiveList(ctx context.Context) ([]entity.Raffle, error)
	GetListByCreator(ctx context.Context, creatorID string) ([]entity.Raffle, error)
	GetEndedList(ctx context.Context, now time.Time) ([]entity.Raffle, error)
	Deactivate(ctx context.Context, id string) error
	IncreaseSoldTickets(ctx context.Context, id string, quantity int) (int, error)
	AssignWinner(ctx context.Context, id, winnerID string) error
	Approve(ctx context.Context, id string, byWinner bool) error
}

type raffleRepository struct {
	redisClient xredis.Client
}

func NewRaffleRepository(redisClient xredis.Client) *raffleRepository {
	return &raffleRepository{redisClient: redisClient}
}

func (r *raffleRepository) cacheKeyByID(raffleID string) string {
	return fmt.Sprintf("cache:raffle:%s", raffleID)
}

func (r *raffleRepository) cacheKeyActiveList() string {
	return "cache:raffle:active"
}

func (r *raffleRepository) cacheKeyByCreator(creatorID string) string {
	return fmt.Sprintf("cache:raffle:creator:%s", creatorID)
}

// cache stores a raffle under its id key. Failures only cost latency, so
// they are logged and swallowed.
func (r *raffleRepository) cache(ctx context.Context, raffle *entity.Raffle) {
	if err := r.redisClient.SetObj(ctx, r.cacheKeyByID(raffle.ID), raffle, 0); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache raffle %s: %v", raffle.ID, err)
	}
}

func (r *raffleRepository) fromCache(ctx context.Context, raffleID string) *entity.Raffle {
	var result entity.Raffle
	err := r.redisClient.GetObj(ctx, r.cacheKeyByID(raffleID), &result)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get raffle %s from cache: %v", raffleID, err)
		}

		return nil
	}

	return &result
}

// invalidateCache drops the raffle's own key and every aggregate key that
// could contain it.
func (r *raffleRepository) invalidateCache(ctx context.Context, raffle *entity.Raffle) {
	keys := []string{
		r.cacheKeyByID(raffle.ID),
		r.cacheKeyActiveList(),
		r.cacheKeyByCreator(raffle.CreatedBy),
	}

	if err := r.redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate raffle cache %s: %v", raffle.ID, err)
	}
}

func (r *raffleRepository) Create(ctx context.Context, raffle *entity.Raffle) error {
	if err := xcontext.DB(ctx).Create(raffle).Error; err != nil {
		return err
	}

	r.invalidateCache(ctx, raffle)
	return nil
}

func (r *raffleRepository) GetByID(ctx context.Context, id string) (*entity.Raffle, error) {
	if cached := r.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	var result entity.Raffle
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, &result)
	return &result, nil
}

func (r *raffleRepository) GetActiveList(ctx context.Context) ([]entity.Raffle, error) {
	var cached []entity.Raffle
	err := r.redisClient.GetObj(ctx, r.cacheKeyActiveList(), &cached)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, redis.Nil) {
		xcontext.Logger(ctx).Warnf("Cannot get active raffles from cache: %v", err)
	}

	var result []entity.Raffle
	if err := xcontext.DB(ctx).Where("active=?", true).Find(&result).Error; err != nil {
		return nil, err
	}

	if err := r.redisClient.SetObj(ctx, r.cacheKeyActiveList(), result, 0); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache active raffles: %v", err)
	}

	return result, nil
}

func (r *raffleRepository) GetListByCreator(ctx context.Context, creatorID string) ([]entity.Raffle, error) {
	var cached []entity.Raffle
	err := r.redisClient.GetObj(ctx, r.cacheKeyByCreator(creatorID), &cached)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, redis.Nil) {
		xcontext.Logger(ctx).Warnf("Cannot get raffles of creator %s from cache: %v", creatorID, err)
	}

	var result []entity.Raffle
	if err := xcontext.DB(ctx).Where("created_by=?", creatorID).Find(&result).Error; err != nil {
		return nil, err
	}

	if err := r.redisClient.SetObj(ctx, r.cacheKeyByCreator(creatorID), result, 0); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache raffles of creator %s: %v", creatorID, err)
	}

	return result, nil
}

func (r *raffleRepository) GetEndedList(ctx context.Context, now time.Time) ([]entity.Raffle, error) {
	var result []entity.Raffle
	err := xcontext.DB(ctx).
		Where("active=? AND end_time <= ?", true, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Deactivate flips the active flag off. It returns gorm.ErrRecordNotFound if
// the raffle was already inactive.
func (r *raffleRepository) Deactivate(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("id=? AND active=?", id, true).
		Update("active", false)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCacheByID(ctx, id)
	return nil
}

// IncreaseSoldTickets adds quantity to the sold counter in a single UPDATE
// and returns the counter after the increment. The WHERE clause enforces the
// capacity limit, so two concurrent purchases can never oversell or lose an
// increment. It returns gorm.ErrRecordNotFound if the raffle is inactive,
// missing, or out of capacity.
func (r *raffleRepository) IncreaseSoldTickets(ctx context.Context, id string, quantity int) (int, error) {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("id=? AND active=? AND sold_tickets + ? <= max_tickets", id, true, quantity).
		Update("sold_tickets", gorm.Expr("sold_tickets+?", quantity))
	if tx.Error != nil {
		return 0, tx.Error
	}

	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	// The counter must come from the row, not from the caller's snapshot. A
	// snapshot can be stale under concurrent purchases or a served cache
	// whose invalidation failed.
	var result entity.Raffle
	if err := xcontext.DB(ctx).Select("sold_tickets").Take(&result, "id=?", id).Error; err != nil {
		return 0, err
	}

	r.invalidateCacheByID(ctx, id)
	return result.SoldTickets, nil
}

// AssignWinner records the winner. It only succeeds while no winner is set
// yet, so a winner can never be silently replaced.
func (r *raffleRepository) AssignWinner(ctx context.Context, id, winnerID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("id=? AND winner_id IS NULL", id).
		Update("winner_id", winnerID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCacheByID(ctx, id)
	return nil
}

// Approve sets one of the two approval flags. The conditional update makes
// the operation idempotent under concurrency: a second approval by the same
// party affects no row and returns gorm.ErrRecordNotFound.
func (r *raffleRepository) Approve(ctx context.Context, id string, byWinner bool) error {
	column := "approved_by_creator"
	if byWinner {
		column = "approved_by_winner"
	}

	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where(fmt.Sprintf("id=? AND winner_id IS NOT NULL AND %s=?", column), id, false).
		Update(column, true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCacheByID(ctx, id)
	return nil
}

func (r *raffleRepository) invalidateCacheByID(ctx context.Context, id string) {
	raffle := r.fromCache(ctx, id)
	if raffle == nil {
		var result entity.Raffle
		if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
			xcontext.Logger(ctx).Warnf("Cannot load raffle %s for invalidation: %v", id, err)
			return
		}

		raffle = &result
	}

	r.invalidateCache(ctx, raffle)
}
