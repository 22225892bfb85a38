package main

import (
	"github.com/rafflehub/backend/internal/domain/cron"
	"github.com/rafflehub/backend/internal/domain/notification"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadContext()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadIDGenerator()
	s.loadRepos()

	s.dispatcher = notification.NewDispatcher(s.notificationRepo, s.idGenerator)

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewRaffleActivationCronJob(
		s.ctx,
		s.announcementRepo,
		s.raffleRepo,
		s.interestRepo,
		s.dispatcher,
		s.publisher,
	))
	cronJobManager.Start(s.ctx)

	return nil
}
