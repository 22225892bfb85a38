package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AnnouncementDomain interface {
	Create(context.Context, *model.CreateAnnouncementRequest) (*model.CreateAnnouncementResponse, error)
	GetList(context.Context, *model.GetAnnouncementsRequest) (*model.GetAnnouncementsResponse, error)
	ToggleInterest(context.Context, *model.ToggleInterestRequest) (*model.ToggleInterestResponse, error)
	GetMyInterests(context.Context, *model.GetMyInterestsRequest) (*model.GetMyInterestsResponse, error)
}

type announcementDomain struct {
	announcementRepo repository.AnnouncementRepository
	interestRepo     repository.InterestRepository
	categoryRepo     repository.CategoryRepository
}

func NewAnnouncementDomain(
	announcementRepo repository.AnnouncementRepository,
	interestRepo repository.InterestRepository,
	categoryRepo repository.CategoryRepository,
) *announcementDomain {
	return &announcementDomain{
		announcementRepo: announcementRepo,
		interestRepo:     interestRepo,
		categoryRepo:     categoryRepo,
	}
}

func (d *announcementDomain) Create(
	ctx context.Context, req *model.CreateAnnouncementRequest,
) (*model.CreateAnnouncementResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	if req.MaxTickets <= 0 {
		return nil, errorx.New(errorx.BadRequest, "The max number of tickets must be a positive number")
	}

	if req.TicketPrice < 0 || req.PrizeValue < 0 {
		return nil, errorx.New(errorx.BadRequest, "Price and prize value must not be negative")
	}

	if !req.StartTime.After(time.Now()) {
		return nil, errorx.New(errorx.BadRequest, "Start time must be in the future")
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

	announcement := &entity.RaffleAnnouncement{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       req.Title,
		Description: req.Description,
		PrizeValue:  req.PrizeValue,
		TicketPrice: req.TicketPrice,
		MaxTickets:  req.MaxTickets,
		StartTime:   req.StartTime,
		CategoryID:  categoryID,
		CreatedBy:   xcontext.RequestUserID(ctx),
		Active:      true,
	}

	if err := d.announcementRepo.Create(ctx, announcement); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create announcement: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateAnnouncementResponse{
		Announcement: model.ConvertAnnouncement(announcement, category),
	}, nil
}

func (d *announcementDomain) GetList(
	ctx context.Context, req *model.GetAnnouncementsRequest,
) (*model.GetAnnouncementsResponse, error) {
	announcements, err := d.announcementRepo.GetList(ctx, repository.GetListAnnouncementFilter{
		CategoryID: req.CategoryID,
		ActiveOnly: true,
	})
	if err != nil {
		// A listing failure only hurts the UI, degrade to an empty list.
		xcontext.Logger(ctx).Errorf("Cannot get announcements: %v", err)
		return &model.GetAnnouncementsResponse{Announcements: []model.RaffleAnnouncement{}}, nil
	}

	clientAnnouncements := []model.RaffleAnnouncement{}
	for _, a := range announcements {
		clientAnnouncements = append(clientAnnouncements,
			model.ConvertAnnouncement(&a, model.Category{ID: a.CategoryID.String}))
	}

	return &model.GetAnnouncementsResponse{Announcements: clientAnnouncements}, nil
}

func (d *announcementDomain) ToggleInterest(
	ctx context.Context, req *model.ToggleInterestRequest,
) (*model.ToggleInterestResponse, error) {
	if req.Action != model.InterestActionAdd && req.Action != model.InterestActionRemove {
		return nil, errorx.New(errorx.BadRequest, "Invalid action %s", req.Action)
	}

	sessionID := xcontext.RequestSessionID(ctx)
	if sessionID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "No session")
	}

	announcement, err := d.announcementRepo.GetByID(ctx, req.AnnouncementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found announcement")
		}

		xcontext.Logger(ctx).Errorf("Cannot get announcement: %v", err)
		return nil, errorx.Unknown
	}

	if !announcement.Active {
		return nil, errorx.New(errorx.Unavailable, "The announcement already started")
	}

	count := announcement.InterestedCount

	// Toggling is a best-effort UI feature. Persistence failures are logged
	// and the current count is returned unchanged.
	func() {
		ctx := xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		var changed bool
		var delta int
		var err error
		switch req.Action {
		case model.InterestActionAdd:
			delta = 1
			changed, err = d.interestRepo.Add(ctx, &entity.Interest{
				SessionID:      sessionID,
				AnnouncementID: announcement.ID,
			})
		case model.InterestActionRemove:
			delta = -1
			changed, err = d.interestRepo.Remove(ctx, sessionID, announcement.ID)
		}

		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot toggle interest of %s: %v", announcement.ID, err)
			return
		}

		if !changed {
			return
		}

		err = d.announcementRepo.ChangeInterestedCount(ctx, announcement.ID, delta)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot change interested count of %s: %v", announcement.ID, err)
			return
		}

		count += delta
		xcontext.WithCommitDBTransaction(ctx)
	}()

	return &model.ToggleInterestResponse{InterestedCount: count}, nil
}

func (d *announcementDomain) GetMyInterests(
	ctx context.Context, req *model.GetMyInterestsRequest,
) (*model.GetMyInterestsResponse, error) {
	sessionID := xcontext.RequestSessionID(ctx)
	if sessionID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "No session")
	}

	announcementIDs, err := d.interestRepo.GetAnnouncementIDsBySessionID(ctx, sessionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get interests of %s: %v", sessionID, err)
		return &model.GetMyInterestsResponse{AnnouncementIDs: []string{}}, nil
	}

	return &model.GetMyInterestsResponse{AnnouncementIDs: announcementIDs}, nil
}
