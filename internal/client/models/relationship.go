// Package models holds the client-side domain types of the SwapMarket
// marketplace: profiles, notifications, trades, and review drafts, plus the
// pure functions that derive UI state from server-owned flags.
package models

// RelationshipStatus describes the follow edge between the viewer and a
// viewed profile, as reported by the server.
type RelationshipStatus string

const (
	RelationshipSelf         RelationshipStatus = "SELF"
	RelationshipFollowing    RelationshipStatus = "FOLLOWING"
	RelationshipNotFollowing RelationshipStatus = "NOT_FOLLOWING"
	RelationshipFollowBack   RelationshipStatus = "FOLLOW_BACK"
)

// ButtonLabel returns the follow-control caption for the status. The control
// is not rendered for SELF, so the label is empty.
func (s RelationshipStatus) ButtonLabel() string {
	switch s {
	case RelationshipFollowing:
		return "unfollow"
	case RelationshipFollowBack:
		return "follow back"
	case RelationshipNotFollowing:
		return "follow"
	default:
		return ""
	}
}

// Toggled returns the optimistic target of a toggle command. SELF is
// terminal and returns itself.
func (s RelationshipStatus) Toggled() RelationshipStatus {
	switch s {
	case RelationshipNotFollowing, RelationshipFollowBack:
		return RelationshipFollowing
	case RelationshipFollowing:
		return RelationshipNotFollowing
	default:
		return s
	}
}

// Profile is the viewed-profile payload. It is replaced wholesale on every
// refetch; follower counts are never adjusted client-side.
type Profile struct {
	UserID         string             `json:"userId"`
	Nickname       string             `json:"nickname"`
	AvatarURL      string             `json:"avatarUrl"`
	FollowerCount  int                `json:"followerCount"`
	FollowingCount int                `json:"followingCount"`
	Relationship   RelationshipStatus `json:"relationship"`
}
