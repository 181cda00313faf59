package domain

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// PageRequest is a limit/offset pagination request with sane bounds.
type PageRequest struct {
	MaxResults int
	PageOffset int
}

// Limit returns the effective page size.
func (p PageRequest) Limit() int {
	if p.MaxResults <= 0 {
		return defaultPageSize
	}
	if p.MaxResults > maxPageSize {
		return maxPageSize
	}
	return p.MaxResults
}

// Offset returns the effective offset.
func (p PageRequest) Offset() int {
	if p.PageOffset < 0 {
		return 0
	}
	return p.PageOffset
}
