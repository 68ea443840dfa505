package model

// FeedSession is a friend's session enriched with its author for feed display.
type FeedSession struct {
	ClimbingSession
	Author UserSummary `json:"author"`
}

// FeedResponse is the friends activity feed.
type FeedResponse struct {
	Sessions []FeedSession `json:"sessions"`
}

// Feed paging limits
const (
	FeedDefaultLimit = 20
	FeedMaxLimit     = 100
)
