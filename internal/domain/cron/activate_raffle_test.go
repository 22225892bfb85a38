package cron

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafflehub/backend/internal/domain/notification"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_RaffleActivationCronJob_Do(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	announcementRepo := repository.NewAnnouncementRepository()
	raffleRepo := repository.NewRaffleRepository(&testutil.MockRedisClient{})
	interestRepo := repository.NewInterestRepository()
	notificationRepo := repository.NewNotificationRepository()

	idGenerator, err := snowflake.NewNode(1)
	require.NoError(t, err)
	dispatcher := notification.NewDispatcher(notificationRepo, idGenerator)

	var published int
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			published++
			return nil
		},
	}

	due := testutil.Announcement1
	due.ID = "due-announcement"
	due.StartTime = time.Now().Add(-time.Minute)
	require.NoError(t, announcementRepo.Create(ctx, &due))

	for _, sessionID := range []string{"session1", "session2"} {
		_, err := interestRepo.Add(ctx, &entity.Interest{
			SessionID:      sessionID,
			AnnouncementID: due.ID,
		})
		require.NoError(t, err)
	}

	ended := testutil.Raffle1
	ended.ID = "raffle-over"
	ended.EndTime = time.Now().Add(-time.Minute)
	require.NoError(t, raffleRepo.Create(ctx, &ended))

	job := NewRaffleActivationCronJob(
		ctx, announcementRepo, raffleRepo, interestRepo, dispatcher, publisher)
	job.Do(ctx)

	// The announcement was claimed.
	announcement, err := announcementRepo.GetByID(ctx, due.ID)
	require.NoError(t, err)
	require.False(t, announcement.Active)

	// Exactly one raffle carries the announcement's terms.
	var raffles []entity.Raffle
	err = xcontext.DB(ctx).Find(&raffles, "announcement_id=?", due.ID).Error
	require.NoError(t, err)
	require.Len(t, raffles, 1)
	require.Equal(t, due.Title, raffles[0].Title)
	require.Equal(t, due.MaxTickets, raffles[0].MaxTickets)
	require.True(t, raffles[0].Active)
	require.True(t, raffles[0].EndTime.After(raffles[0].StartTime))

	// Every interested session got the activation message.
	for _, sessionID := range []string{"session1", "session2"} {
		notifications, err := notificationRepo.GetListByReceiverID(ctx, sessionID, 10)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
	}

	// The expired raffle was closed, the fixture one stayed live.
	endedRaffle, err := raffleRepo.GetByID(ctx, ended.ID)
	require.NoError(t, err)
	require.False(t, endedRaffle.Active)

	liveRaffle, err := raffleRepo.GetByID(ctx, testutil.Raffle1.ID)
	require.NoError(t, err)
	require.True(t, liveRaffle.Active)

	// The interest rows were purged and the event went out once.
	sessionIDs, err := interestRepo.GetSessionIDsByAnnouncementID(ctx, due.ID)
	require.NoError(t, err)
	require.Empty(t, sessionIDs)
	require.Equal(t, 1, published)

	// A second tick is a no-op.
	job.Do(ctx)

	err = xcontext.DB(ctx).Find(&raffles, "announcement_id=?", due.ID).Error
	require.NoError(t, err)
	require.Len(t, raffles, 1)
	require.Equal(t, 1, published)
}

func Test_RaffleActivationCronJob_failureIsolation(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	announcementRepo := repository.NewAnnouncementRepository()
	raffleRepo := repository.NewRaffleRepository(&testutil.MockRedisClient{})
	interestRepo := repository.NewInterestRepository()
	notificationRepo := repository.NewNotificationRepository()

	idGenerator, err := snowflake.NewNode(1)
	require.NoError(t, err)
	dispatcher := notification.NewDispatcher(notificationRepo, idGenerator)

	blocked := testutil.Announcement1
	blocked.ID = "blocked-announcement"
	blocked.StartTime = time.Now().Add(-2 * time.Minute)
	require.NoError(t, announcementRepo.Create(ctx, &blocked))

	healthy := testutil.Announcement1
	healthy.ID = "healthy-announcement"
	healthy.StartTime = time.Now().Add(-time.Minute)
	require.NoError(t, announcementRepo.Create(ctx, &healthy))

	// A raffle already claims the first announcement, so activating it again
	// violates the unique index and rolls that activation back.
	conflicting := testutil.Raffle1
	conflicting.ID = "conflicting-raffle"
	conflicting.AnnouncementID = sql.NullString{String: blocked.ID, Valid: true}
	require.NoError(t, raffleRepo.Create(ctx, &conflicting))

	job := NewRaffleActivationCronJob(
		ctx, announcementRepo, raffleRepo, interestRepo, dispatcher, &testutil.MockPublisher{})
	job.Do(ctx)

	// The failing announcement is restored for a retry on a later tick.
	announcement, err := announcementRepo.GetByID(ctx, blocked.ID)
	require.NoError(t, err)
	require.True(t, announcement.Active)

	// Its failure did not stop the healthy one from going live.
	announcement, err = announcementRepo.GetByID(ctx, healthy.ID)
	require.NoError(t, err)
	require.False(t, announcement.Active)

	var raffles []entity.Raffle
	err = xcontext.DB(ctx).Find(&raffles, "announcement_id=?", healthy.ID).Error
	require.NoError(t, err)
	require.Len(t, raffles, 1)
}

func Test_RaffleActivationCronJob_schedule(t *testing.T) {
	job := &RaffleActivationCronJob{tickInterval: time.Second}
	require.True(t, job.RunNow())
	require.WithinDuration(t, time.Now().Add(time.Second), job.Next(), 100*time.Millisecond)
}
