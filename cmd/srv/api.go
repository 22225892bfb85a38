package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rafflehub/backend/internal/middleware"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadContext()
	db := s.newDatabase()
	s.ctx = xcontext.WithDB(s.ctx, db)
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadIDGenerator()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	root := router.New(db, cfg, xcontext.Logger(s.ctx))
	root.AddCloser(middleware.Logger())
	root.Before(middleware.AllowCors())
	root.Before(middleware.WithRequestUser())
	root.Before(middleware.WithRequestSession())

	router.GET(root, "/getAnnouncements", s.announcementDomain.GetList)
	router.GET(root, "/getMyInterests", s.announcementDomain.GetMyInterests)
	router.POST(root, "/toggleInterest", s.announcementDomain.ToggleInterest)
	router.GET(root, "/getRaffles", s.raffleDomain.GetList)
	router.GET(root, "/getRaffle", s.raffleDomain.Get)
	router.GET(root, "/getRaffleTickets", s.ticketDomain.GetListByRaffle)
	router.GET(root, "/getCategories", s.categoryDomain.GetList)
	router.GET(root, "/getMyNotifications", s.inboxDomain.GetMyNotifications)

	authRouter := root.Branch()
	authRouter.Before(middleware.Authenticate())
	router.POST(authRouter, "/createAnnouncement", s.announcementDomain.Create)
	router.POST(authRouter, "/createRaffle", s.raffleDomain.Create)
	router.POST(authRouter, "/buyTickets", s.ticketDomain.Buy)
	router.POST(authRouter, "/assignWinner", s.raffleDomain.AssignWinner)
	router.POST(authRouter, "/approveRaffle", s.raffleDomain.Approve)
	router.POST(authRouter, "/createCategory", s.categoryDomain.Create)
	router.GET(authRouter, "/getMyTickets", s.ticketDomain.GetMyList)

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", cfg.ApiServer.Address())
	httpServer := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: root.Handler(),
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}

		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpServer.Shutdown(context.Background())
	})

	return g.Wait()
}
