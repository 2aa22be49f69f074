package models

// FilterParams narrows and pages a listing query. Zero values impose no
// constraint; Page is 1-based and defaults to 1, PageSize defaults to 12.
type FilterParams struct {
	Q        string
	Brand    string
	Color    string
	Doors    int
	Location string
	MinPrice float64
	MaxPrice float64
	Page     int
	PageSize int
}

// Normalized returns a copy with paging defaults applied.
func (p FilterParams) Normalized() FilterParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 12
	}
	return p
}
