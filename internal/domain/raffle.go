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

type RaffleDomain interface {
	Create(context.Context, *model.CreateRaffleRequest) (*model.CreateRaffleResponse, error)
	Get(context.Context, *model.GetRaffleRequest) (*model.GetRaffleResponse, error)
	GetList(context.Context, *model.GetRafflesRequest) (*model.GetRafflesResponse, error)
	AssignWinner(context.Context, *model.AssignWinnerRequest) (*model.AssignWinnerResponse, error)
	Approve(context.Context, *model.ApproveRaffleRequest) (*model.ApproveRaffleResponse, error)
}

type raffleDomain struct {
	raffleRepo   repository.RaffleRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	publisher    pubsub.Publisher
}

func NewRaffleDomain(
	raffleRepo repository.RaffleRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
) *raffleDomain {
	return &raffleDomain{
		raffleRepo:   raffleRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		publisher:    publisher,
	}
}

func (d *raffleDomain) Create(
	ctx context.Context, req *model.CreateRaffleRequest,
) (*model.CreateRaffleResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	if req.MaxTickets <= 0 {
		return nil, errorx.New(errorx.BadRequest, "The max number of tickets must be a positive number")
	}

	if req.TicketPrice < 0 || req.PrizeValue < 0 {
		return nil, errorx.New(errorx.BadRequest, "Price and prize value must not be negative")
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous creator")
	}

	categoryID := sql.NullString{}
	category := model.Category{}
	if req.CategoryID != "" {
		record, err := d.categoryRepo.GetByID(ctx, req.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found category")
			}

			xcontext.Logger(ctx).Errorf("Cannot get category: %v", err)
			return nil, errorx.Unknown
		}

		categoryID = sql.NullString{String: record.ID, Valid: true}
		category = model.ConvertCategory(record)
	}

	now := time.Now()
	raffle := &entity.Raffle{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       req.Title,
		Description: req.Description,
		PrizeValue:  req.PrizeValue,
		TicketPrice: req.TicketPrice,
		MaxTickets:  req.MaxTickets,
		CategoryID:  categoryID,
		CreatedBy:   userID,
		StartTime:   now,
		EndTime:     now.Add(xcontext.Configs(ctx).Raffle.Duration),
		Active:      true,
	}

	if err := d.raffleRepo.Create(ctx, raffle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create raffle: %v", err)
		return nil, errorx.Unknown
	}

	clientRaffle := model.ConvertRaffle(raffle, category)
	d.broadcast(ctx, raffle.ID, &event.RaffleCreatedEvent{Raffle: clientRaffle})

	return &model.CreateRaffleResponse{Raffle: clientRaffle}, nil
}

func (d *raffleDomain) Get(
	ctx context.Context, req *model.GetRaffleRequest,
) (*model.GetRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRaffleResponse{
		Raffle: model.ConvertRaffle(raffle, model.Category{ID: raffle.CategoryID.String}),
	}, nil
}

func (d *raffleDomain) GetList(
	ctx context.Context, req *model.GetRafflesRequest,
) (*model.GetRafflesResponse, error) {
	var raffles []entity.Raffle
	var err error
	if req.CreatedBy != "" {
		raffles, err = d.raffleRepo.GetListByCreator(ctx, req.CreatedBy)
	} else {
		raffles, err = d.raffleRepo.GetActiveList(ctx)
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffles: %v", err)
		return nil, errorx.Unknown
	}

	clientRaffles := []model.Raffle{}
	for _, r := range raffles {
		clientRaffles = append(clientRaffles,
			model.ConvertRaffle(&r, model.Category{ID: r.CategoryID.String}))
	}

	return &model.GetRafflesResponse{Raffles: clientRaffles}, nil
}

func (d *raffleDomain) AssignWinner(
	ctx context.Context, req *model.AssignWinnerRequest,
) (*model.AssignWinnerResponse, error) {
	if req.WinnerID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty winner")
	}

	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	if xcontext.RequestUserID(ctx) != raffle.CreatedBy {
		return nil, errorx.New(errorx.PermissionDenied, "Only the creator can assign the winner")
	}

	if _, err := d.userRepo.GetByID(ctx, req.WinnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.raffleRepo.AssignWinner(ctx, raffle.ID, req.WinnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "The raffle already has a winner")
		}

		xcontext.Logger(ctx).Errorf("Cannot assign winner: %v", err)
		return nil, errorx.Unknown
	}

	raffle.WinnerID = sql.NullString{String: req.WinnerID, Valid: true}
	return &model.AssignWinnerResponse{
		Raffle: model.ConvertRaffle(raffle, model.Category{ID: raffle.CategoryID.String}),
	}, nil
}

// Approve records the caller's side of the settlement handshake. Approving
// again after the flag is set is a no-op, and a settled raffle stays settled.
func (d *raffleDomain) Approve(
	ctx context.Context, req *model.ApproveRaffleRequest,
) (*model.ApproveRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	if !raffle.WinnerID.Valid {
		return nil, errorx.New(errorx.Unavailable, "No winner assigned yet")
	}

	userID := xcontext.RequestUserID(ctx)
	var byWinner bool
	switch userID {
	case raffle.CreatedBy:
		byWinner = false
	case raffle.WinnerID.String:
		byWinner = true
	default:
		return nil, errorx.New(errorx.PermissionDenied, "Only the creator or the winner can approve")
	}

	approved := raffle.ApprovedByCreator
	if byWinner {
		approved = raffle.ApprovedByWinner
	}

	if !approved {
		if err := d.raffleRepo.Approve(ctx, raffle.ID, byWinner); err != nil {
			// A lost race with the same party's concurrent approval still
			// leaves the flag set, which is the outcome we wanted.
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot approve raffle: %v", err)
				return nil, errorx.Unknown
			}
		}

		if byWinner {
			raffle.ApprovedByWinner = true
		} else {
			raffle.ApprovedByCreator = true
		}

		d.broadcast(ctx, raffle.ID, &event.RaffleApprovedEvent{
			RaffleID:          raffle.ID,
			ApprovedBy:        userID,
			ApprovedByCreator: raffle.ApprovedByCreator,
			ApprovedByWinner:  raffle.ApprovedByWinner,
			State:             string(raffle.State()),
		})
	}

	return &model.ApproveRaffleResponse{
		Raffle: model.ConvertRaffle(raffle, model.Category{ID: raffle.CategoryID.String}),
	}, nil
}

func (d *raffleDomain) broadcast(ctx context.Context, key string, ev event.Event) {
	b, err := event.New(ev).Marshal()
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal %s event: %v", ev.Op(), err)
		return
	}

	err = d.publisher.Publish(ctx, event.Topic, &pubsub.Pack{Key: []byte(key), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish %s event: %v", ev.Op(), err)
	}
}
