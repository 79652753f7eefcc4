package dto

// Paging defaults shared by every list endpoint
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// Pagination block returned alongside list data
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasMore     bool  `json:"hasMore"`
}

// NewPagination computes the block for one page of a result set
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total / int64(limit))
		if total%int64(limit) != 0 {
			totalPages++
		}
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasMore:     int64(page)*int64(limit) < total,
	}
}

// PageQuery is the page/limit pair every list accepts
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize applies defaults and clamps limit to 1..MaxLimit
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultLimit
	case q.Limit < 1:
		q.Limit = 1
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	return q
}

// Response is the envelope every endpoint returns
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Count      *int        `json:"count,omitempty"`
}

// ToggleResponse is returned by like toggles
type ToggleResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
