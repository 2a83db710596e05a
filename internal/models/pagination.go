package models

// Pagination describes the position of a page within a listing
type Pagination struct {
	TotalDocs   int64 `json:"totalDocs"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

// NewPagination computes page navigation for total documents split into pages of limit
func NewPagination(total int64, page, limit int) Pagination {
	p := Pagination{TotalDocs: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	p.HasNextPage = page < p.TotalPages
	p.HasPrevPage = page > 1
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// CommentPaginationOf narrows a pagination to the comments listing shape
func CommentPaginationOf(p Pagination) CommentPagination {
	return CommentPagination{
		TotalComments: p.TotalDocs,
		TotalPages:    p.TotalPages,
		HasNextPage:   p.HasNextPage,
		HasPrevPage:   p.HasPrevPage,
		NextPage:      p.NextPage,
		PrevPage:      p.PrevPage,
	}
}
