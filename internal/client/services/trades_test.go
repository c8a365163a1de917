package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/client/optimistic"
	"github.com/dmitrijs2005/swapmarket/internal/common"
)

func seedTrades() []*models.Trade {
	return []*models.Trade{
		{
			TradeID:            "t-1",
			CounterpartyUserID: "u-9",
			Status:             "IN_PROGRESS",
			CanComplete:        true,
			RequesterPost:      models.Post{PostID: "p-1", Title: "camera"},
			OwnerPost:          models.Post{PostID: "p-2", Title: "bike"},
		},
		{
			TradeID:            "t-2",
			CounterpartyUserID: "u-5",
			Status:             "COMPLETED",
			CanRate:            true,
		},
		{
			TradeID:            "t-3",
			CounterpartyUserID: "u-7",
			Status:             "IN_PROGRESS",
		},
	}
}

func newTradeService(t *testing.T, fc *fakeClient) TradeService {
	t.Helper()
	svc := NewTradeService(fc, optimistic.NewEngine(), testLogger())
	require.NoError(t, svc.Refresh(context.Background()))
	return svc
}

func TestTrades_CompleteConfirmedMovesToReview(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	v, err := svc.View("t-1")
	require.NoError(t, err)
	require.Equal(t, models.PhaseReadyToComplete, v.Phase)

	// After completion the server flips the flags; the client only learns
	// that from the refetch.
	fc.mu.Lock()
	fc.TradesRet[0].CanComplete = false
	fc.TradesRet[0].CanRate = true
	fc.mu.Unlock()

	require.NoError(t, svc.Complete(context.Background(), "t-1"))
	require.Equal(t, 1, fc.CompleteCalls)
	require.Equal(t, "t-1", fc.LastCompleteTradeID)
	require.Equal(t, 2, fc.GetTradesCalls, "confirmed completion triggers a full list refresh")

	v, err = svc.View("t-1")
	require.NoError(t, err)
	require.Equal(t, models.PhaseReadyToReview, v.Phase)
	require.False(t, svc.Busy("t-1"))
}

func TestTrades_CompleteRejectedClearsBusyAndKeepsFlags(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	fc.CompleteErr = &api.Error{Code: 4009, Message: "counterparty withdrew"}

	err := svc.Complete(context.Background(), "t-1")
	require.Error(t, err)
	require.Equal(t, "counterparty withdrew", api.AlertMessage(err))
	require.False(t, svc.Busy("t-1"))
	require.Equal(t, 1, fc.GetTradesCalls, "no refetch on rejection")

	// No local flag was guessed, so the trade still renders as completable.
	v, err := svc.View("t-1")
	require.NoError(t, err)
	require.Equal(t, models.PhaseReadyToComplete, v.Phase)
}

func TestTrades_CompleteNotAllowed(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	err := svc.Complete(context.Background(), "t-3")
	require.ErrorIs(t, err, common.ErrActionNotAllowed)
	require.Zero(t, fc.CompleteCalls)

	err = svc.Complete(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestTrades_OpenReviewActivatesSingleDraft(t *testing.T) {
	trades := seedTrades()
	trades = append(trades, &models.Trade{TradeID: "t-4", CounterpartyUserID: "u-1", CanRate: true})
	fc := &fakeClient{TradesRet: trades}
	svc := newTradeService(t, fc)

	require.NoError(t, svc.OpenReview("t-2"))
	d, ok := svc.Draft()
	require.True(t, ok)
	require.Equal(t, "t-2", d.TradeID)
	require.Equal(t, "u-5", d.ReviewedUserID)
	require.Equal(t, models.DefaultRating, d.Rating)
	require.Empty(t, d.Comment)

	// Opening a second draft closes the first.
	require.NoError(t, svc.OpenReview("t-4"))
	d, ok = svc.Draft()
	require.True(t, ok)
	require.Equal(t, "t-4", d.TradeID)

	svc.CancelReview()
	_, ok = svc.Draft()
	require.False(t, ok)
}

func TestTrades_OpenReviewNotAllowed(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	require.ErrorIs(t, svc.OpenReview("t-3"), common.ErrActionNotAllowed)
	require.ErrorIs(t, svc.OpenReview("missing"), common.ErrNotFound)
}

func TestTrades_SubmitReviewValidation(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	err := svc.SubmitReview(context.Background(), 5, "great trade")
	require.ErrorIs(t, err, common.ErrNoActiveDraft)

	require.NoError(t, svc.OpenReview("t-2"))

	err = svc.SubmitReview(context.Background(), 5, "   ")
	require.ErrorIs(t, err, common.ErrEmptyComment)
	require.Zero(t, fc.CreateReviewCalls, "validation failures never reach the network")

	_, ok := svc.Draft()
	require.True(t, ok, "draft survives a validation failure")
}

func TestTrades_SubmitReviewConfirmed(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	require.NoError(t, svc.OpenReview("t-2"))

	fc.mu.Lock()
	fc.TradesRet[1].CanRate = false
	fc.TradesRet[1].Reviewed = true
	fc.mu.Unlock()

	require.NoError(t, svc.SubmitReview(context.Background(), 9, "smooth and friendly"))
	require.Equal(t, 1, fc.CreateReviewCalls)
	require.Equal(t, "t-2", fc.LastReview.TradeID)
	require.Equal(t, "u-5", fc.LastReview.ReviewedUserID)
	require.Equal(t, 5, fc.LastReview.Rating, "out-of-range rating is clamped")
	require.Equal(t, "smooth and friendly", fc.LastReview.Comment)

	_, ok := svc.Draft()
	require.False(t, ok, "draft closes on success")

	v, err := svc.View("t-2")
	require.NoError(t, err)
	require.Equal(t, models.PhaseReviewed, v.Phase)
}

func TestTrades_SubmitReviewZeroRatingDefaults(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	require.NoError(t, svc.OpenReview("t-2"))
	require.NoError(t, svc.SubmitReview(context.Background(), 0, "fine"))
	require.Equal(t, models.DefaultRating, fc.LastReview.Rating)
}

func TestTrades_SubmitReviewRejectedPreservesDraft(t *testing.T) {
	fc := &fakeClient{TradesRet: seedTrades()}
	svc := newTradeService(t, fc)

	require.NoError(t, svc.OpenReview("t-2"))
	fc.CreateReviewErr = &api.Error{Code: 5000, Message: "try later"}

	err := svc.SubmitReview(context.Background(), 4, "typed a long comment")
	require.Error(t, err)

	d, ok := svc.Draft()
	require.True(t, ok, "failed submit must not clear the draft")
	require.Equal(t, "typed a long comment", d.Comment)
	require.Equal(t, 4, d.Rating)
	require.Equal(t, 1, fc.GetTradesCalls, "no refetch on failure")
}
