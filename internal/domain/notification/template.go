package notification

import (
	"fmt"

	"github.com/rafflehub/backend/internal/entity"
)

// ActivationMessage builds the fan-out message sent to every session that
// expressed interest in an announcement, once its raffle goes live.
func ActivationMessage(raffle *entity.Raffle) (title, content string) {
	title = fmt.Sprintf("Raffle %q is live", raffle.Title)
	content = fmt.Sprintf(
		"The raffle %q has started. Prize value: %.2f. Ticket price: %.2f. Tickets available: %d.",
		raffle.Title, raffle.PrizeValue, raffle.TicketPrice, raffle.MaxTickets,
	)
	return title, content
}
