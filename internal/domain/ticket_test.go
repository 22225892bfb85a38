package domain

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rafflehub/backend/internal/domain/notification/event"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_ticketDomain_Buy(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	raffleRepo := repository.NewRaffleRepository(&testutil.MockRedisClient{})
	ticketDomain := NewTicketDomain(
		repository.NewTicketRepository(),
		raffleRepo,
		&testutil.MockPublisher{},
	)

	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)

	// Invalid requests first.
	_, err := ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
		Quantity: 0,
	})
	require.Equal(t, "The quantity must be a positive number", err.Error())

	_, err = ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: "unknown",
		Quantity: 1,
	})
	require.Equal(t, "Not found raffle", err.Error())

	_, err = ticketDomain.Buy(ctx, &model.BuyTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
		Quantity: 1,
	})
	require.Equal(t, "Not allow an anonymous buyer", err.Error())

	// Raffle1 has 10 tickets. Buy 4 of them.
	resp, err := ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID:    testutil.Raffle1.ID,
		Quantity:    4,
		TotalAmount: 8,
		TxRef:       "tx-1",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, resp.Ticket.BuyerID)
	require.Equal(t, 4, resp.Ticket.Quantity)

	// A purchase over the remaining capacity is rejected entirely.
	_, err = ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
		Quantity: 7,
	})
	require.Equal(t, "Not enough tickets left", err.Error())

	// Exactly the remaining capacity still works.
	_, err = ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
		Quantity: 6,
	})
	require.NoError(t, err)

	raffle, err := raffleRepo.GetByID(ctx, testutil.Raffle1.ID)
	require.NoError(t, err)
	require.Equal(t, 10, raffle.SoldTickets)

	// Sold out now.
	_, err = ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
		Quantity: 1,
	})
	require.Equal(t, "Not enough tickets left", err.Error())

	// The rejected purchases left no ticket record behind.
	myTickets, err := ticketDomain.GetMyList(ctxUser2, &model.GetMyTicketsRequest{})
	require.NoError(t, err)
	require.Len(t, myTickets.Tickets, 2)

	raffleTickets, err := ticketDomain.GetListByRaffle(ctx, &model.GetRaffleTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
	})
	require.NoError(t, err)
	require.Len(t, raffleTickets.Tickets, 2)
}

func Test_ticketDomain_Buy_concurrent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	raffleRepo := repository.NewRaffleRepository(&testutil.MockRedisClient{})
	ticketDomain := NewTicketDomain(
		repository.NewTicketRepository(),
		raffleRepo,
		&testutil.MockPublisher{},
	)

	raffle := testutil.Raffle1
	raffle.ID = "raffle-rush"
	raffle.MaxTickets = 5
	require.NoError(t, raffleRepo.Create(ctx, &raffle))

	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)

	// More buyers than tickets. Exactly the capacity may succeed, the rest
	// must be rejected, and no increment may be lost.
	var succeeded int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
				RaffleID: raffle.ID,
				Quantity: 1,
			})
			if err == nil {
				atomic.AddInt32(&succeeded, 1)
				return nil
			}

			if err.Error() != "Not enough tickets left" {
				return err
			}

			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(5), succeeded)

	result, err := raffleRepo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.Equal(t, 5, result.SoldTickets)

	raffleTickets, err := ticketDomain.GetListByRaffle(ctx, &model.GetRaffleTicketsRequest{
		RaffleID: raffle.ID,
	})
	require.NoError(t, err)
	require.Len(t, raffleTickets.Tickets, 5)
}

func Test_ticketDomain_Buy_broadcastSoldCount(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	// A cache that stores objects but can never delete them, so every read
	// after the first keeps serving the snapshot taken before any purchase.
	store := map[string][]byte{}
	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			b, err := json.Marshal(obj)
			if err != nil {
				return err
			}

			store[key] = b
			return nil
		},
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			b, ok := store[key]
			if !ok {
				return redis.Nil
			}

			return json.Unmarshal(b, v)
		},
		DelFunc: func(ctx context.Context, key ...string) error {
			return errors.New("connection refused")
		},
	}

	var soldCounts []int
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			var req struct {
				Data event.TicketPurchasedEvent `json:"d"`
			}
			require.NoError(t, json.Unmarshal(pack.Msg, &req))
			soldCounts = append(soldCounts, req.Data.SoldTickets)
			return nil
		},
	}

	ticketDomain := NewTicketDomain(
		repository.NewTicketRepository(),
		repository.NewRaffleRepository(redisClient),
		publisher,
	)

	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err := ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
		Quantity: 3,
	})
	require.NoError(t, err)

	_, err = ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: testutil.Raffle1.ID,
		Quantity: 2,
	})
	require.NoError(t, err)

	// The events carry the counter of the row, not the stale cached snapshot.
	require.Equal(t, []int{3, 5}, soldCounts)
}

func Test_ticketDomain_Buy_endedRaffle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	raffleRepo := repository.NewRaffleRepository(&testutil.MockRedisClient{})
	ticketDomain := NewTicketDomain(
		repository.NewTicketRepository(),
		raffleRepo,
		&testutil.MockPublisher{},
	)

	ended := testutil.Raffle1
	ended.ID = "raffle-ended"
	ended.Active = false
	require.NoError(t, raffleRepo.Create(ctx, &ended))

	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err := ticketDomain.Buy(ctxUser2, &model.BuyTicketsRequest{
		RaffleID: ended.ID,
		Quantity: 1,
	})
	require.Equal(t, "The raffle already ended", err.Error())
}
