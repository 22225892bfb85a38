package domain

import (
	"context"

	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
)

const defaultNotificationLimit = 50

type InboxDomain interface {
	GetMyNotifications(context.Context, *model.GetMyNotificationsRequest) (*model.GetMyNotificationsResponse, error)
}

type inboxDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewInboxDomain(notificationRepo repository.NotificationRepository) *inboxDomain {
	return &inboxDomain{notificationRepo: notificationRepo}
}

func (d *inboxDomain) GetMyNotifications(
	ctx context.Context, req *model.GetMyNotificationsRequest,
) (*model.GetMyNotificationsResponse, error) {
	// Interest fan-out addresses sessions, so the inbox is keyed by the
	// session first and falls back to the signed-in user.
	receiverID := xcontext.RequestSessionID(ctx)
	if receiverID == "" {
		receiverID = xcontext.RequestUserID(ctx)
	}

	if receiverID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "No session")
	}

	limit := req.Limit
	if limit <= 0 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}

	notifications, err := d.notificationRepo.GetListByReceiverID(ctx, receiverID, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications of %s: %v", receiverID, err)
		return nil, errorx.Unknown
	}

	clientNotifications := []model.Notification{}
	for _, n := range notifications {
		clientNotifications = append(clientNotifications, model.ConvertNotification(&n))
	}

	return &model.GetMyNotificationsResponse{Notifications: clientNotifications}, nil
}
