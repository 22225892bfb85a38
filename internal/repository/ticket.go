package repository

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetListByRaffleID(ctx context.Context, raffleID string) ([]entity.Ticket, error)
	GetListByBuyerID(ctx context.Context, buyerID string) ([]entity.Ticket, error)
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	return xcontext.DB(ctx).Create(ticket).Error
}

func (r *ticketRepository) GetListByRaffleID(ctx context.Context, raffleID string) ([]entity.Ticket, error) {
	var result []entity.Ticket
	if err := xcontext.DB(ctx).Find(&result, "raffle_id=?", raffleID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) GetListByBuyerID(ctx context.Context, buyerID string) ([]entity.Ticket, error) {
	var result []entity.Ticket
	if err := xcontext.DB(ctx).Find(&result, "buyer_id=?", buyerID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
