package shared

const (
	DefaultPage  = 1
	DefaultLimit = 25
	// MaxLimit caps page sizes so a stray query cannot drag the whole
	// table over the wire.
	MaxLimit = 200

	SortAsc  = "asc"
	SortDesc = "desc"
)
