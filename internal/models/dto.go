package models

// Pagination carries the list query parameters shared by every entity.
type Pagination struct {
	Page  int    `form:"page" json:"page" validate:"omitempty,min=1"`
	Limit int    `form:"limit" json:"limit" validate:"omitempty,min=1"`
	Order string `form:"order" json:"order" validate:"omitempty,oneof=asc desc"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	OrderAsc     = "asc"
	OrderDesc    = "desc"
)

// Normalize fills defaults for missing fields. There is deliberately no
// upper bound on Limit: callers fetch "all" rows with limit=1000.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Order != OrderAsc && p.Order != OrderDesc {
		p.Order = OrderDesc
	}
}

// Offset returns the row offset for the normalized page/limit pair.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes a paginated result set.
type PageMeta struct {
	Total           int64      `json:"total"`
	Pagination      Pagination `json:"pagination"`
	TotalPages      int        `json:"totalPages"`
	HasNextPage     bool       `json:"hasNextPage"`
	HasPreviousPage bool       `json:"hasPreviousPage"`
}

// NewPageMeta computes paging metadata for a total row count.
func NewPageMeta(total int64, p Pagination) PageMeta {
	totalPages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		totalPages++
	}
	return PageMeta{
		Total:           total,
		Pagination:      p,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < totalPages,
		HasPreviousPage: p.Page > 1 && total > 0,
	}
}
