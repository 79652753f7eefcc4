package service

import "context"

// Engagement kinds and actions reported to an EngagementRecorder
const (
	KindProjectLike = "project_like"
	KindCommentLike = "comment_like"
	KindComment     = "comment"
	KindRating      = "rating"
	KindBookmark    = "bookmark"
	KindProject     = "project"

	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
)

// EngagementRecorder observes successful mutations, e.g. to count them
type EngagementRecorder interface {
	RecordEngagement(kind, action string)
}

type noopRecorder struct{}

func (noopRecorder) RecordEngagement(string, string) {}

func recorderOrNoop(r EngagementRecorder) EngagementRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func toggleAction(on bool) string {
	if on {
		return ActionAdd
	}
	return ActionRemove
}

// Cache stores JSON-encodable values for a while. A miss or any backend
// failure reads as not found.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{})
	Delete(ctx context.Context, keys ...string)
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, interface{}) bool { return false }
func (noopCache) SetJSON(context.Context, string, interface{})      {}
func (noopCache) Delete(context.Context, ...string)                 {}

func cacheOrNoop(c Cache) Cache {
	if c == nil {
		return noopCache{}
	}
	return c
}
