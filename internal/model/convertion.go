package model

import (
	"strconv"
	"time"

	"github.com/rafflehub/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertCategory(category *entity.Category) Category {
	if category == nil {
		return Category{}
	}

	return Category{
		ID:   category.ID,
		Name: category.Name,
	}
}

func ConvertAnnouncement(announcement *entity.RaffleAnnouncement, category Category) RaffleAnnouncement {
	if announcement == nil {
		return RaffleAnnouncement{}
	}

	return RaffleAnnouncement{
		ID:              announcement.ID,
		Title:           announcement.Title,
		Description:     announcement.Description,
		PrizeValue:      announcement.PrizeValue,
		TicketPrice:     announcement.TicketPrice,
		MaxTickets:      announcement.MaxTickets,
		StartTime:       announcement.StartTime.Format(DefaultTimeLayout),
		Category:        category,
		CreatedBy:       announcement.CreatedBy,
		Active:          announcement.Active,
		InterestedCount: announcement.InterestedCount,
	}
}

func ConvertRaffle(raffle *entity.Raffle, category Category) Raffle {
	if raffle == nil {
		return Raffle{}
	}

	return Raffle{
		ID:                raffle.ID,
		AnnouncementID:    raffle.AnnouncementID.String,
		Title:             raffle.Title,
		Description:       raffle.Description,
		PrizeValue:        raffle.PrizeValue,
		TicketPrice:       raffle.TicketPrice,
		MaxTickets:        raffle.MaxTickets,
		SoldTickets:       raffle.SoldTickets,
		Category:          category,
		CreatedBy:         raffle.CreatedBy,
		StartTime:         raffle.StartTime.Format(DefaultTimeLayout),
		EndTime:           raffle.EndTime.Format(DefaultTimeLayout),
		Active:            raffle.Active,
		WinnerID:          raffle.WinnerID.String,
		ApprovedByCreator: raffle.ApprovedByCreator,
		ApprovedByWinner:  raffle.ApprovedByWinner,
		State:             string(raffle.State()),
	}
}

func ConvertTicket(ticket *entity.Ticket) Ticket {
	if ticket == nil {
		return Ticket{}
	}

	return Ticket{
		ID:          ticket.ID,
		RaffleID:    ticket.RaffleID,
		BuyerID:     ticket.BuyerID,
		Quantity:    ticket.Quantity,
		TotalAmount: ticket.TotalAmount,
		TxRef:       ticket.TxRef.String,
		CreatedAt:   ticket.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertNotification(notification *entity.Notification) Notification {
	if notification == nil {
		return Notification{}
	}

	return Notification{
		ID:      strconv.FormatInt(notification.ID, 10),
		Title:   notification.Title,
		Content: notification.Content,
		IsRead:  notification.IsRead,
	}
}
