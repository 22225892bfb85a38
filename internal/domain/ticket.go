package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/domain/notification/event"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TicketDomain interface {
	Buy(context.Context, *model.BuyTicketsRequest) (*model.BuyTicketsResponse, error)
	GetListByRaffle(context.Context, *model.GetRaffleTicketsRequest) (*model.GetRaffleTicketsResponse, error)
	GetMyList(context.Context, *model.GetMyTicketsRequest) (*model.GetMyTicketsResponse, error)
}

type ticketDomain struct {
	ticketRepo repository.TicketRepository
	raffleRepo repository.RaffleRepository
	publisher  pubsub.Publisher
}

func NewTicketDomain(
	ticketRepo repository.TicketRepository,
	raffleRepo repository.RaffleRepository,
	publisher pubsub.Publisher,
) *ticketDomain {
	return &ticketDomain{
		ticketRepo: ticketRepo,
		raffleRepo: raffleRepo,
		publisher:  publisher,
	}
}

func (d *ticketDomain) Buy(
	ctx context.Context, req *model.BuyTicketsRequest,
) (*model.BuyTicketsResponse, error) {
	if req.Quantity <= 0 {
		return nil, errorx.New(errorx.BadRequest, "The quantity must be a positive number")
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous buyer")
	}

	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	if !raffle.Active || time.Now().After(raffle.EndTime) {
		return nil, errorx.New(errorx.Unavailable, "The raffle already ended")
	}

	ticket := &entity.Ticket{
		Base:        entity.Base{ID: uuid.NewString()},
		RaffleID:    raffle.ID,
		BuyerID:     userID,
		Quantity:    req.Quantity,
		TotalAmount: req.TotalAmount,
	}
	if req.TxRef != "" {
		ticket.TxRef = sql.NullString{String: req.TxRef, Valid: true}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The conditional update is the authoritative capacity check. Overselling
	// is impossible even when two purchases race on the last tickets.
	soldTickets, err := d.raffleRepo.IncreaseSoldTickets(ctx, raffle.ID, req.Quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Not enough tickets left")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase sold tickets: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.ticketRepo.Create(ctx, ticket); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create ticket: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	clientTicket := model.ConvertTicket(ticket)
	ev := event.New(&event.TicketPurchasedEvent{
		Ticket:      clientTicket,
		SoldTickets: soldTickets,
	})
	b, err := ev.Marshal()
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal ticket purchased event: %v", err)
	} else if err := d.publisher.Publish(ctx, event.Topic, &pubsub.Pack{Key: []byte(raffle.ID), Msg: b}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish ticket purchased event: %v", err)
	}

	return &model.BuyTicketsResponse{Ticket: clientTicket}, nil
}

func (d *ticketDomain) GetListByRaffle(
	ctx context.Context, req *model.GetRaffleTicketsRequest,
) (*model.GetRaffleTicketsResponse, error) {
	tickets, err := d.ticketRepo.GetListByRaffleID(ctx, req.RaffleID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of raffle %s: %v", req.RaffleID, err)
		return nil, errorx.Unknown
	}

	clientTickets := []model.Ticket{}
	for _, t := range tickets {
		clientTickets = append(clientTickets, model.ConvertTicket(&t))
	}

	return &model.GetRaffleTicketsResponse{Tickets: clientTickets}, nil
}

func (d *ticketDomain) GetMyList(
	ctx context.Context, req *model.GetMyTicketsRequest,
) (*model.GetMyTicketsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "No user")
	}

	tickets, err := d.ticketRepo.GetListByBuyerID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	clientTickets := []model.Ticket{}
	for _, t := range tickets {
		clientTickets = append(clientTickets, model.ConvertTicket(&t))
	}

	return &model.GetMyTicketsResponse{Tickets: clientTickets}, nil
}
