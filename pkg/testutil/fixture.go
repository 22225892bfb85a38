package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base: entity.Base{ID: "user1"},
		Name: "user1",
		Role: entity.UserRole,
	}

	User2 = entity.User{
		Base: entity.Base{ID: "user2"},
		Name: "user2",
		Role: entity.UserRole,
	}

	Admin = entity.User{
		Base: entity.Base{ID: "admin"},
		Name: "admin",
		Role: entity.AdminRole,
	}

	Category1 = entity.Category{
		Base:      entity.Base{ID: "category1"},
		Name:      "Electronics",
		CreatedBy: Admin.ID,
	}

	// Announcement1 starts far in the future, so the scheduler never touches
	// it unless a test rewinds the start time.
	Announcement1 = entity.RaffleAnnouncement{
		Base:        entity.Base{ID: "announcement1"},
		Title:       "Announcement 1",
		Description: "A prize worth waiting for",
		PrizeValue:  100,
		TicketPrice: 2,
		MaxTickets:  10,
		StartTime:   time.Now().Add(time.Hour),
		CategoryID:  sql.NullString{String: Category1.ID, Valid: true},
		CreatedBy:   User1.ID,
		Active:      true,
	}

	// Raffle1 is live, sells tickets and has no winner yet.
	Raffle1 = entity.Raffle{
		Base:        entity.Base{ID: "raffle1"},
		Title:       "Raffle 1",
		PrizeValue:  100,
		TicketPrice: 2,
		MaxTickets:  10,
		CreatedBy:   User1.ID,
		StartTime:   time.Now(),
		EndTime:     time.Now().Add(time.Hour),
		Active:      true,
	}
)

// CreateFixture inserts the shared sample records. Tests mutate their own
// copies, never these.
func CreateFixture(ctx context.Context, redisClient *MockRedisClient) {
	userRepo := repository.NewUserRepository()
	categoryRepo := repository.NewCategoryRepository()
	announcementRepo := repository.NewAnnouncementRepository()
	raffleRepo := repository.NewRaffleRepository(redisClient)

	for _, user := range []entity.User{User1, User2, Admin} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}

	category := Category1
	if err := categoryRepo.Create(ctx, &category); err != nil {
		panic(err)
	}

	announcement := Announcement1
	if err := announcementRepo.Create(ctx, &announcement); err != nil {
		panic(err)
	}

	raffle := Raffle1
	if err := raffleRepo.Create(ctx, &raffle); err != nil {
		panic(err)
	}
}
