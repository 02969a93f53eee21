package shared

// ListFilters carries the paging, search and sort parameters shared by the
// masterdata list endpoints.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool

	// Category narrows item lists to one mapping category.
	Category *string
}

// Normalize clamps paging values to sane defaults.
func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.SortDir != SortAsc && f.SortDir != SortDesc {
		f.SortDir = SortAsc
	}
}
