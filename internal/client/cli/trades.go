package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/common"
)

// Trades lists the trades with their derived lifecycle state.
func (a *App) Trades(ctx context.Context) error {
	if err := a.trades.Refresh(ctx); err != nil {
		printlnFn("Could not load trades:", api.AlertMessage(err))
		return err
	}

	list := a.trades.Trades()
	if len(list) == 0 {
		printlnFn("No trades")
		return nil
	}

	for _, t := range list {
		printlnFn(describeTrade(t, a.trades.Busy(t.TradeID)))
	}
	return nil
}

func describeTrade(t models.Trade, busy bool) string {
	v := models.DeriveTradeView(t)

	var badge string
	switch v.Phase {
	case models.PhaseReviewed:
		badge = "reviewed"
	case models.PhaseAwaitingCounterparty:
		badge = "awaiting confirmation"
	case models.PhaseReadyToComplete:
		badge = "in progress"
	case models.PhaseReadyToReview:
		badge = "completed"
	}

	actions := ""
	if busy {
		actions = " (submitting...)"
	} else {
		if v.ShowComplete {
			actions += " [complete]"
		}
		if v.ShowReview {
			actions += " [review]"
		}
	}

	return fmt.Sprintf("%s: %s <-> %s, %s%s", t.TradeID, t.RequesterPost.Title, t.OwnerPost.Title, badge, actions)
}

// Complete submits the "mark complete" command for a trade.
func (a *App) Complete(ctx context.Context, tradeID string) error {
	if err := a.trades.Complete(ctx, tradeID); err != nil {
		printlnFn("Could not complete trade:", api.AlertMessage(err))
		return err
	}
	printlnFn("Trade completed")
	return a.Trades(ctx)
}

// Review opens a review draft for the trade, prompts for rating and comment,
// and submits it. An empty comment cancels nothing: the draft survives so a
// second "review" command resumes it.
func (a *App) Review(ctx context.Context, tradeID string) error {
	if err := a.trades.OpenReview(tradeID); err != nil {
		printlnFn("Cannot review this trade:", api.AlertMessage(err))
		return err
	}

	ratingText, err := GetSimpleText(a.reader, "Rating 1-5 (empty for 5)", os.Stdout)
	if err != nil {
		a.trades.CancelReview()
		return err
	}
	rating := 0
	if ratingText != "" {
		rating, err = strconv.Atoi(ratingText)
		if err != nil {
			printlnFn("Invalid rating:", ratingText)
			a.trades.CancelReview()
			return err
		}
	}

	comment, err := GetSimpleText(a.reader, "Comment", os.Stdout)
	if err != nil {
		a.trades.CancelReview()
		return err
	}

	if err := a.trades.SubmitReview(ctx, rating, comment); err != nil {
		if errors.Is(err, common.ErrEmptyComment) {
			printlnFn("Comment must not be empty (draft kept, run review again)")
		} else {
			printlnFn("Could not submit review:", api.AlertMessage(err))
		}
		return err
	}
	printlnFn("Review submitted")
	return a.Trades(ctx)
}
