package branches

import "time"

// Branch is an operating location that documents can be tagged with.
// Deactivated branches keep their history; Delete only clears is_active.
type Branch struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
