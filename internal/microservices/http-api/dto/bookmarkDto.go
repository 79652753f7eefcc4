package dto

// BookmarkStatusResponse is returned by the toggle and check endpoints
type BookmarkStatusResponse struct {
	Bookmarked bool `json:"bookmarked"`
}
