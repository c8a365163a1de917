package models

// Post is the listing summary shown on either side of a trade.
type Post struct {
	PostID   string `json:"postId"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// Trade mirrors the server's trade payload. Status, CanComplete, CanRate and
// Reviewed are server-owned; the client only sends "complete" and "submit
// review" commands and waits for the server's next truth.
//
// Server contract: Reviewed == true implies CanRate == false.
type Trade struct {
	TradeID            string `json:"tradeId"`
	CounterpartyUserID string `json:"counterpartyUserId"`
	Status             string `json:"status"`
	CanComplete        bool   `json:"canComplete"`
	CanRate            bool   `json:"canRate"`
	Reviewed           bool   `json:"reviewed"`
	RequesterPost      Post   `json:"requesterPost"`
	OwnerPost          Post   `json:"ownerPost"`
}

// TradePhase is the composite lifecycle state derived from the trade flags.
// Exactly one phase holds for any valid flag combination.
type TradePhase string

const (
	// PhaseReviewed renders a static "reviewed" badge, no actions.
	PhaseReviewed TradePhase = "REVIEWED"
	// PhaseAwaitingCounterparty renders a static "awaiting confirmation"
	// badge, no actions.
	PhaseAwaitingCounterparty TradePhase = "AWAITING_COUNTERPARTY"
	// PhaseReadyToComplete renders the "complete trade" action. CanComplete
	// is authoritative: the phase holds even when CanRate is also set.
	PhaseReadyToComplete TradePhase = "READY_TO_COMPLETE"
	// PhaseReadyToReview renders the "submit review" affordance.
	PhaseReadyToReview TradePhase = "READY_TO_REVIEW"
)

// TradeView is the rendered state of one trade row. ShowComplete and
// ShowReview are independent permissions: when the server reports both
// CanComplete and CanRate, both actions are offered side by side.
type TradeView struct {
	Phase        TradePhase
	ShowComplete bool
	ShowReview   bool
}

// DeriveTradeView computes the composite UI state of a trade from its
// server-supplied flags. This is the only place the flags are interpreted;
// every render site goes through it. Reviewed wins over everything else.
func DeriveTradeView(t Trade) TradeView {
	if t.Reviewed {
		return TradeView{Phase: PhaseReviewed}
	}
	if t.CanComplete {
		return TradeView{
			Phase:        PhaseReadyToComplete,
			ShowComplete: true,
			ShowReview:   t.CanRate,
		}
	}
	if t.CanRate {
		return TradeView{Phase: PhaseReadyToReview, ShowReview: true}
	}
	return TradeView{Phase: PhaseAwaitingCounterparty}
}
