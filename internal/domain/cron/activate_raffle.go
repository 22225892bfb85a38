package cron

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/domain/notification"
	"github.com/rafflehub/backend/internal/domain/notification/event"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// RaffleActivationCronJob promotes due announcements into live raffles. Every
// announcement is its own failure domain: an error on one is logged and the
// tick moves on to the next.
type RaffleActivationCronJob struct {
	announcementRepo repository.AnnouncementRepository
	raffleRepo       repository.RaffleRepository
	interestRepo     repository.InterestRepository
	dispatcher       notification.Dispatcher
	publisher        pubsub.Publisher
	tickInterval     time.Duration
}

func NewRaffleActivationCronJob(
	ctx context.Context,
	announcementRepo repository.AnnouncementRepository,
	raffleRepo repository.RaffleRepository,
	interestRepo repository.InterestRepository,
	dispatcher notification.Dispatcher,
	publisher pubsub.Publisher,
) *RaffleActivationCronJob {
	return &RaffleActivationCronJob{
		announcementRepo: announcementRepo,
		raffleRepo:       raffleRepo,
		interestRepo:     interestRepo,
		dispatcher:       dispatcher,
		publisher:        publisher,
		tickInterval:     xcontext.Configs(ctx).Raffle.TickInterval,
	}
}

func (job *RaffleActivationCronJob) Do(ctx context.Context) {
	// START RAFFLES.
	dueAnnouncements, err := job.announcementRepo.GetDueList(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get due announcements: %v", err)
		return
	}

	for _, announcement := range dueAnnouncements {
		job.activate(ctx, &announcement)
	}

	// STOP RAFFLES.
	endedRaffles, err := job.raffleRepo.GetEndedList(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ended raffles: %v", err)
		return
	}

	for _, raffle := range endedRaffles {
		if err := job.raffleRepo.Deactivate(ctx, raffle.ID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot deactivate raffle %s: %v", raffle.ID, err)
			}

			continue
		}

		xcontext.Logger(ctx).Infof("Raffle %s ended", raffle.ID)
	}
}

func (job *RaffleActivationCronJob) activate(ctx context.Context, announcement *entity.RaffleAnnouncement) {
	var raffle *entity.Raffle
	var sessionIDs []string

	err := func() error {
		ctx := xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		// Deactivating first is the single-writer gate. If another tick or
		// instance already claimed this announcement, no row changes and the
		// whole transaction is abandoned.
		if err := job.announcementRepo.DeactivateByID(ctx, announcement.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}

			return err
		}

		now := time.Now()
		raffle = &entity.Raffle{
			Base:           entity.Base{ID: uuid.NewString()},
			AnnouncementID: sql.NullString{String: announcement.ID, Valid: true},
			Title:          announcement.Title,
			Description:    announcement.Description,
			PrizeValue:     announcement.PrizeValue,
			TicketPrice:    announcement.TicketPrice,
			MaxTickets:     announcement.MaxTickets,
			CategoryID:     announcement.CategoryID,
			CreatedBy:      announcement.CreatedBy,
			StartTime:      now,
			EndTime:        now.Add(xcontext.Configs(ctx).Raffle.Duration),
			Active:         true,
		}

		if err := job.raffleRepo.Create(ctx, raffle); err != nil {
			return err
		}

		// The interested set must come from inside the transaction. If it
		// cannot be read, roll everything back and retry next tick rather
		// than activate without notifying anyone.
		var err error
		sessionIDs, err = job.interestRepo.GetSessionIDsByAnnouncementID(ctx, announcement.ID)
		if err != nil {
			return err
		}

		xcontext.WithCommitDBTransaction(ctx)
		return nil
	}()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot activate announcement %s: %v", announcement.ID, err)
		return
	}

	if raffle == nil {
		// Another writer won the gate.
		return
	}

	title, content := notification.ActivationMessage(raffle)
	job.dispatcher.SendBulk(ctx, sessionIDs, title, content)

	if err := job.interestRepo.DeleteByAnnouncementID(ctx, announcement.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot purge interests of %s: %v", announcement.ID, err)
	}

	clientRaffle := model.ConvertRaffle(raffle, model.Category{ID: raffle.CategoryID.String})
	b, err := event.New(&event.RaffleCreatedEvent{Raffle: clientRaffle}).Marshal()
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal raffle created event: %v", err)
	} else if err := job.publisher.Publish(ctx, event.Topic, &pubsub.Pack{Key: []byte(raffle.ID), Msg: b}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish raffle created event: %v", err)
	}

	xcontext.Logger(ctx).Infof("Activated raffle %s from announcement %s, notified %d sessions",
		raffle.ID, announcement.ID, len(sessionIDs))
}

func (job *RaffleActivationCronJob) RunNow() bool {
	return true
}

func (job *RaffleActivationCronJob) Next() time.Time {
	// The tick must stay short, announcements should go live close to their
	// start time.
	interval := job.tickInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return time.Now().Add(interval)
}
