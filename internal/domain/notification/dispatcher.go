package notification

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/xcontext"
)

// Dispatcher delivers messages to user inboxes. Delivery is best-effort from
// the caller's point of view: a failed recipient is logged and skipped, it
// never fails the calling operation and never aborts the other recipients.
type Dispatcher interface {
	Send(ctx context.Context, receiverID, title, content string)
	SendBulk(ctx context.Context, receiverIDs []string, title, content string)
}

type dispatcher struct {
	notificationRepo repository.NotificationRepository
	idGenerator      *snowflake.Node
}

func NewDispatcher(
	notificationRepo repository.NotificationRepository,
	idGenerator *snowflake.Node,
) *dispatcher {
	return &dispatcher{
		notificationRepo: notificationRepo,
		idGenerator:      idGenerator,
	}
}

func (d *dispatcher) Send(ctx context.Context, receiverID, title, content string) {
	notification := &entity.Notification{
		SnowFlakeBase: entity.SnowFlakeBase{ID: d.idGenerator.Generate().Int64()},
		ReceiverID:    receiverID,
		Title:         title,
		Content:       content,
	}

	if err := d.notificationRepo.Create(ctx, notification); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot deliver notification to %s: %v", receiverID, err)
	}
}

func (d *dispatcher) SendBulk(ctx context.Context, receiverIDs []string, title, content string) {
	for _, receiverID := range receiverIDs {
		d.Send(ctx, receiverID, title, content)
	}
}
