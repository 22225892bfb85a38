package main

import (
	"context"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/internal/domain"
	"github.com/rafflehub/backend/internal/domain/notification"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/kafka"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	publisher   pubsub.Publisher
	idGenerator *snowflake.Node

	userRepo         repository.UserRepository
	categoryRepo     repository.CategoryRepository
	announcementRepo repository.AnnouncementRepository
	raffleRepo       repository.RaffleRepository
	interestRepo     repository.InterestRepository
	ticketRepo       repository.TicketRepository
	notificationRepo repository.NotificationRepository

	announcementDomain domain.AnnouncementDomain
	raffleDomain       domain.RaffleDomain
	ticketDomain       domain.TicketDomain
	categoryDomain     domain.CategoryDomain
	inboxDomain        domain.InboxDomain
	dispatcher         notification.Dispatcher
}

func (s *srv) loadConfig() config.Configs {
	return config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "mysql"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "rafflehub"),
			Password: getEnv("MYSQL_PASSWORD", "rafflehub"),
			Database: getEnv("MYSQL_DATABASE", "rafflehub"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", "0.0.0.0"),
			Port: getEnv("API_PORT", "8080"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "24h")),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session_secret"),
			Name:   "session_id",
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "redis:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDRESS", "kafka:9092"),
		},
		Raffle: config.RaffleConfigs{
			TickInterval: parseDuration(getEnv("RAFFLE_TICK_INTERVAL", "5s")),
			Duration:     parseDuration(getEnv("RAFFLE_DURATION", "24h")),
		},
	}
}

func (s *srv) loadContext() {
	cfg := s.loadConfig()
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.INFO))
}

func (s *srv) newDatabase() *gorm.DB {
	databaseCfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(
		mysql.Open(databaseCfg.ConnectionString()),
		&gorm.Config{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher(
		"rafflehub-"+getEnv("HOSTNAME", "srv"),
		[]string{xcontext.Configs(s.ctx).Kafka.Addr},
	)
}

func (s *srv) loadIDGenerator() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.idGenerator = node
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.categoryRepo = repository.NewCategoryRepository()
	s.announcementRepo = repository.NewAnnouncementRepository()
	s.raffleRepo = repository.NewRaffleRepository(s.redisClient)
	s.interestRepo = repository.NewInterestRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadDomains() {
	s.dispatcher = notification.NewDispatcher(s.notificationRepo, s.idGenerator)
	s.announcementDomain = domain.NewAnnouncementDomain(s.announcementRepo, s.interestRepo, s.categoryRepo)
	s.raffleDomain = domain.NewRaffleDomain(s.raffleRepo, s.categoryRepo, s.userRepo, s.publisher)
	s.ticketDomain = domain.NewTicketDomain(s.ticketRepo, s.raffleRepo, s.publisher)
	s.categoryDomain = domain.NewCategoryDomain(s.categoryRepo, s.userRepo)
	s.inboxDomain = domain.NewInboxDomain(s.notificationRepo)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return d
}
