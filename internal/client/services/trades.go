package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/client/optimistic"
	"github.com/dmitrijs2005/swapmarket/internal/common"
	"github.com/dmitrijs2005/swapmarket/internal/logging"
)

// TradeService owns the trade list view: the per-trade lifecycle state, the
// per-trade busy indicators, and the single active review draft.
//
// Contract:
//   - Refresh: replace the list with the server's copy.
//   - Complete: submit the "mark complete" command for one trade. No trade
//     flag is guessed client-side; the list is refetched on confirmation.
//   - OpenReview/CancelReview/SubmitReview: manage the one active draft.
//   - Trades/View/Busy/Draft: read-only render state.
type TradeService interface {
	Refresh(ctx context.Context) error
	Complete(ctx context.Context, tradeID string) error
	OpenReview(tradeID string) error
	CancelReview()
	SubmitReview(ctx context.Context, rating int, comment string) error
	Trades() []models.Trade
	View(tradeID string) (models.TradeView, error)
	Busy(tradeID string) bool
	Draft() (models.ReviewDraft, bool)
}

type tradeService struct {
	client   api.Client
	engine   *optimistic.Engine
	log      logging.Logger
	validate *validator.Validate

	mu    sync.Mutex
	list  []*models.Trade
	index map[string]*models.Trade
	busy  map[string]bool
	draft *models.ReviewDraft
}

func NewTradeService(client api.Client, engine *optimistic.Engine, log logging.Logger) TradeService {
	return &tradeService{
		client:   client,
		engine:   engine,
		log:      log.With("component", "trades"),
		validate: validator.New(),
		index:    make(map[string]*models.Trade),
		busy:     make(map[string]bool),
	}
}

// Refresh fetches the trade list wholesale. Flags are server-owned, so this
// is the only way trade state ever changes locally.
func (s *tradeService) Refresh(ctx context.Context) error {
	list, err := s.client.GetTrades(ctx)
	if err != nil {
		return fmt.Errorf("fetching trades: %w", err)
	}

	index := make(map[string]*models.Trade, len(list))
	for _, t := range list {
		index[t.TradeID] = t
	}

	s.mu.Lock()
	s.list = list
	s.index = index
	s.mu.Unlock()
	return nil
}

// Complete submits the "mark complete" command for one trade.
//
// Unlike the follow toggle, no local flag is optimistically flipped, because
// completion also changes the counterparty's state, which this client cannot
// predict. The optimistic part is the per-trade busy indicator, keyed by
// trade id so concurrent trades in a list don't block each other. On
// confirmation the whole list is refetched; on failure the busy indicator is
// cleared and the server message is surfaced.
func (s *tradeService) Complete(ctx context.Context, tradeID string) error {
	s.mu.Lock()
	t, ok := s.index[tradeID]
	if !ok {
		s.mu.Unlock()
		return common.ErrNotFound
	}
	if !models.DeriveTradeView(*t).ShowComplete {
		s.mu.Unlock()
		return common.ErrActionNotAllowed
	}
	s.mu.Unlock()

	err := s.engine.Run(ctx, "trade:"+tradeID, optimistic.Mutation{
		Apply: func() {
			s.mu.Lock()
			s.busy[tradeID] = true
			s.mu.Unlock()
		},
		Restore: func() {
			s.mu.Lock()
			delete(s.busy, tradeID)
			s.mu.Unlock()
		},
		Commit: func(ctx context.Context) error {
			return s.client.CompleteTrade(ctx, tradeID)
		},
	})
	if err != nil {
		return err
	}

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "trade list refetch after complete failed", "error", err)
	}
	s.mu.Lock()
	delete(s.busy, tradeID)
	s.mu.Unlock()
	return nil
}

// OpenReview activates the review draft for one trade, closing any other
// open draft. The draft starts with the default rating and an empty comment.
func (s *tradeService) OpenReview(tradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.index[tradeID]
	if !ok {
		return common.ErrNotFound
	}
	if !models.DeriveTradeView(*t).ShowReview {
		return common.ErrActionNotAllowed
	}

	s.draft = &models.ReviewDraft{
		TradeID:        tradeID,
		ReviewedUserID: t.CounterpartyUserID,
		Rating:         models.DefaultRating,
	}
	return nil
}

// CancelReview discards the draft unconditionally.
func (s *tradeService) CancelReview() {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
}

// SubmitReview sends the active draft.
//
// Rating zero means "keep the default"; out-of-range values are clamped to
// [1,5]. An empty comment is rejected before any network call. On success
// the draft is closed and the list refetched; on failure the draft is
// preserved so the user can retry without retyping.
func (s *tradeService) SubmitReview(ctx context.Context, rating int, comment string) error {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return common.ErrNoActiveDraft
	}
	if strings.TrimSpace(comment) == "" {
		s.mu.Unlock()
		return common.ErrEmptyComment
	}
	if rating == 0 {
		rating = models.DefaultRating
	}
	s.draft.Rating = models.ClampRating(rating)
	s.draft.Comment = comment
	draft := *s.draft
	tradeID := draft.TradeID
	s.mu.Unlock()

	if err := s.validate.Struct(draft); err != nil {
		return fmt.Errorf("invalid review: %w", err)
	}

	err := s.engine.Run(ctx, "review:"+tradeID, optimistic.Mutation{
		Commit: func(ctx context.Context) error {
			return s.client.CreateReview(ctx, draft)
		},
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "trade list refetch after review failed", "error", err)
	}
	return nil
}

func (s *tradeService) Trades() []models.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trade, 0, len(s.list))
	for _, t := range s.list {
		out = append(out, *t)
	}
	return out
}

// View derives the composite lifecycle state for one trade.
func (s *tradeService) View(tradeID string) (models.TradeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.index[tradeID]
	if !ok {
		return models.TradeView{}, common.ErrNotFound
	}
	return models.DeriveTradeView(*t), nil
}

// Busy reports whether a completion is outstanding for the trade.
func (s *tradeService) Busy(tradeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[tradeID]
}

func (s *tradeService) Draft() (models.ReviewDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return models.ReviewDraft{}, false
	}
	return *s.draft, true
}
