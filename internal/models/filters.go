package models

// RouteFilter holds query parameters for route listing
type RouteFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// Normalize applies the listing defaults and bounds. Every consumer of the
// filter must see the same page size, or the page math drifts from the query.
func (f *RouteFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 50
	}
	if f.PageSize > 500 {
		f.PageSize = 500
	}
}

// RoutesResponse represents a paginated response of routes
type RoutesResponse struct {
	Data       []Route `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
