package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"expense_portal/internal/domain"

	"gorm.io/gorm"
)

// Filter is the filter set shared by the listing, the monthly summary and the export.
type Filter struct {
	CategoryID *uint
	Start      *time.Time // inclusive
	End        *time.Time // inclusive
}

// ParseFilter builds a Filter from raw query values. A malformed category id is
// an error; a malformed date drops that bound.
func ParseFilter(categoryID, startDate, endDate string) (Filter, error) {
	var f Filter
	if v := strings.TrimSpace(categoryID); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategoryID, categoryID)
		}
		cid := uint(id)
		f.CategoryID = &cid
	}
	f.Start = parseDate(startDate)
	f.End = parseDate(endDate)
	return f, nil
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// StartString returns the start bound as YYYY-MM-DD, or "".
func (f Filter) StartString() string {
	if f.Start == nil {
		return ""
	}
	return f.Start.Format(domain.DateLayout)
}

// EndString returns the end bound as YYYY-MM-DD, or "".
func (f Filter) EndString() string {
	if f.End == nil {
		return ""
	}
	return f.End.Format(domain.DateLayout)
}

// Key identifies the filter set in cache keys.
func (f Filter) Key() string {
	cid := ""
	if f.CategoryID != nil {
		cid = strconv.FormatUint(uint64(*f.CategoryID), 10)
	}
	return "cat=" + cid + ":start=" + f.StartString() + ":end=" + f.EndString()
}

// Scope applies the filter to a query on the expenses table.
func (f Filter) Scope(db *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		db = db.Where("expenses.category_id = ?", *f.CategoryID)
	}
	if f.Start != nil {
		db = db.Where("expenses.date_spent >= ?", *f.Start)
	}
	if f.End != nil {
		db = db.Where("expenses.date_spent <= ?", *f.End)
	}
	return db
}
