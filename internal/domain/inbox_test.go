package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/rafflehub/backend/internal/domain/notification"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_inboxDomain_GetMyNotifications(t *testing.T) {
	ctx := testutil.MockContext()

	notificationRepo := repository.NewNotificationRepository()
	idGenerator, err := snowflake.NewNode(1)
	require.NoError(t, err)

	dispatcher := notification.NewDispatcher(notificationRepo, idGenerator)
	dispatcher.SendBulk(ctx, []string{"session1", "session2"}, "First", "first message")
	dispatcher.Send(ctx, "session1", "Second", "second message")

	inboxDomain := NewInboxDomain(notificationRepo)

	// Each receiver only sees its own inbox, newest first.
	ctxSession1 := testutil.MockContextWithSessionID(ctx, "session1")
	resp, err := inboxDomain.GetMyNotifications(ctxSession1, &model.GetMyNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 2)
	require.Equal(t, "Second", resp.Notifications[0].Title)

	ctxSession2 := testutil.MockContextWithSessionID(ctx, "session2")
	resp, err = inboxDomain.GetMyNotifications(ctxSession2, &model.GetMyNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)

	// The limit caps the page.
	resp, err = inboxDomain.GetMyNotifications(ctxSession1, &model.GetMyNotificationsRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)

	_, err = inboxDomain.GetMyNotifications(ctx, &model.GetMyNotificationsRequest{})
	require.Equal(t, "No session", err.Error())
}
