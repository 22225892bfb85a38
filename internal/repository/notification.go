package repository

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetListByReceiverID(ctx context.Context, receiverID string, limit int) ([]entity.Notification, error)
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return xcontext.DB(ctx).Create(notification).Error
}

func (r *notificationRepository) GetListByReceiverID(
	ctx context.Context, receiverID string, limit int,
) ([]entity.Notification, error) {
	var result []entity.Notification
	err := xcontext.DB(ctx).
		Where("receiver_id=?", receiverID).
		Order("id DESC").Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
