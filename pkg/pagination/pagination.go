// Package pagination builds the page envelope shared by every list endpoint.
package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 25
	// MaxLimit is the page size ceiling used when no other is configured.
	MaxLimit = 100
)

// Params is a requested page.
type Params struct {
	Page  int
	Limit int
}

// Normalize applies defaults: pages start at 1, a non-positive limit becomes
// DefaultLimit and limits above maxLimit are clamped to it.
func (p Params) Normalize(maxLimit int) Params {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns (page*limit)-limit, or 0 for pages below 1.
func (p Params) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return p.Page*p.Limit - p.Limit
}

// Meta is the pagination block of an Envelope.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PrevPage    *int  `json:"prev_page"`
	NextPage    *int  `json:"next_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
}

// Envelope wraps one page of data.
type Envelope[T any] struct {
	Data T `json:"data"`
	Meta struct {
		Pagination Meta `json:"pagination"`
	} `json:"meta"`
}

// Paginate wraps data with its pagination metadata. It has no side effects.
func Paginate[T any](data T, totalCount int64, page, limit int) Envelope[T] {
	var env Envelope[T]
	env.Data = data
	env.Meta.Pagination = NewMeta(totalCount, page, limit)
	return env
}

// NewMeta computes the pagination metadata for a page.
func NewMeta(totalCount int64, page, limit int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((totalCount + int64(limit) - 1) / int64(limit))
	}
	meta := Meta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
	}
	if page > 1 {
		prev := page - 1
		meta.PrevPage = &prev
	}
	if page < totalPages {
		next := page + 1
		meta.NextPage = &next
	}
	return meta
}
