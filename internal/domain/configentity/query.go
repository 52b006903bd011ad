package configentity

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ListQuery is the wire-level list request. Page is 1-indexed; clients
// that track a 0-indexed page add 1 before calling.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (q ListQuery) LimitOffset() (limit, offset int) {
	limit = q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
