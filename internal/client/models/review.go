package models

// ReviewDraft is the ephemeral state of the review form for one trade. It is
// discarded on submit success or cancel and never partially persisted.
type ReviewDraft struct {
	TradeID        string `json:"tradeId" validate:"required"`
	ReviewedUserID string `json:"reviewedId" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment" validate:"required"`
}

// DefaultRating is the preselected rating of a freshly opened draft.
const DefaultRating = 5

// ClampRating forces a rating into the valid [1,5] range.
func ClampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
