package domain

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page selects the slice [Offset(), Offset()+Limit) of an ordered listing.
type Page struct {
	Number int64
	Limit  int64
}

func (p Page) Offset() int64 {
	return (p.Number - 1) * p.Limit
}

// ParsePage reads page and limit from their query-string form. Missing,
// non-numeric and non-positive values fall back to the defaults; limit is
// capped at maxLimit and page is capped so Offset stays in range.
func ParsePage(page, limit string, defaultLimit, maxLimit int64) Page {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}

	p := Page{Number: DefaultPage, Limit: defaultLimit}

	if n, err := strconv.ParseInt(page, 10, 64); err == nil && n >= 1 {
		p.Number = n
	}
	if n, err := strconv.ParseInt(limit, 10, 64); err == nil && n >= 1 {
		p.Limit = n
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if maxNumber := math.MaxInt64 / p.Limit; p.Number > maxNumber {
		p.Number = maxNumber
	}

	return p
}
