package domain

import (
	"testing"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestRaffleDomain() RaffleDomain {
	return NewRaffleDomain(
		repository.NewRaffleRepository(&testutil.MockRedisClient{}),
		repository.NewCategoryRepository(),
		repository.NewUserRepository(),
		&testutil.MockPublisher{},
	)
}

func Test_raffleDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	raffleDomain := newTestRaffleDomain()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := raffleDomain.Create(ctxUser1, &model.CreateRaffleRequest{
		Title:       "Instant raffle",
		PrizeValue:  50,
		TicketPrice: 1,
		MaxTickets:  20,
		CategoryID:  testutil.Category1.ID,
	})
	require.NoError(t, err)
	require.True(t, resp.Raffle.Active)
	require.Equal(t, string(entity.RaffleWinnerPending), resp.Raffle.State)
	require.Empty(t, resp.Raffle.AnnouncementID)

	_, err = raffleDomain.Create(ctxUser1, &model.CreateRaffleRequest{
		Title:      "",
		MaxTickets: 20,
	})
	require.Equal(t, "Not allow empty title", err.Error())

	_, err = raffleDomain.Create(ctx, &model.CreateRaffleRequest{
		Title:      "No creator",
		MaxTickets: 20,
	})
	require.Equal(t, "Not allow an anonymous creator", err.Error())
}

func Test_raffleDomain_AssignWinnerAndApprove(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	raffleDomain := newTestRaffleDomain()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	ctxAdmin := testutil.MockContextWithUserID(ctx, testutil.Admin.ID)

	// Nobody but the creator assigns winners.
	_, err := raffleDomain.AssignWinner(ctxUser2, &model.AssignWinnerRequest{
		RaffleID: testutil.Raffle1.ID,
		WinnerID: testutil.User2.ID,
	})
	require.Equal(t, "Only the creator can assign the winner", err.Error())

	// No approval before the winner exists.
	_, err = raffleDomain.Approve(ctxUser1, &model.ApproveRaffleRequest{
		RaffleID: testutil.Raffle1.ID,
	})
	require.Equal(t, "No winner assigned yet", err.Error())

	// The winner must be a known user.
	_, err = raffleDomain.AssignWinner(ctxUser1, &model.AssignWinnerRequest{
		RaffleID: testutil.Raffle1.ID,
		WinnerID: "unknown",
	})
	require.Equal(t, "Not found user", err.Error())

	resp, err := raffleDomain.AssignWinner(ctxUser1, &model.AssignWinnerRequest{
		RaffleID: testutil.Raffle1.ID,
		WinnerID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, resp.Raffle.WinnerID)
	require.Equal(t, string(entity.RaffleAwaitingApprovals), resp.Raffle.State)

	// The winner is final.
	_, err = raffleDomain.AssignWinner(ctxUser1, &model.AssignWinnerRequest{
		RaffleID: testutil.Raffle1.ID,
		WinnerID: testutil.Admin.ID,
	})
	require.Equal(t, "The raffle already has a winner", err.Error())

	// A third party cannot approve.
	_, err = raffleDomain.Approve(ctxAdmin, &model.ApproveRaffleRequest{
		RaffleID: testutil.Raffle1.ID,
	})
	require.Equal(t, "Only the creator or the winner can approve", err.Error())

	// Creator approves.
	approveResp, err := raffleDomain.Approve(ctxUser1, &model.ApproveRaffleRequest{
		RaffleID: testutil.Raffle1.ID,
	})
	require.NoError(t, err)
	require.True(t, approveResp.Raffle.ApprovedByCreator)
	require.False(t, approveResp.Raffle.ApprovedByWinner)
	require.Equal(t, string(entity.RafflePartiallyApproved), approveResp.Raffle.State)

	// Approving twice changes nothing.
	approveResp, err = raffleDomain.Approve(ctxUser1, &model.ApproveRaffleRequest{
		RaffleID: testutil.Raffle1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.RafflePartiallyApproved), approveResp.Raffle.State)

	// Winner approves, the raffle settles.
	approveResp, err = raffleDomain.Approve(ctxUser2, &model.ApproveRaffleRequest{
		RaffleID: testutil.Raffle1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.RaffleSettled), approveResp.Raffle.State)

	// Settled is terminal; a repeated approval stays settled.
	approveResp, err = raffleDomain.Approve(ctxUser2, &model.ApproveRaffleRequest{
		RaffleID: testutil.Raffle1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.RaffleSettled), approveResp.Raffle.State)
}
