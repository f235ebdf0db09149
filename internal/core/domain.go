package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the storage format for expense dates. No time-of-day is kept.
const DateLayout = "2006-01-02"

type (
	Money struct {
		Cents int64
	}

	Expense struct {
		ID       int64 // Database ID, zero before insert
		Amount   Money
		Category string
		Date     string // YYYY-MM-DD
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
)

// ParseDate parses a stored expense date. Records whose date does not parse
// are excluded from date-scoped computations rather than treated as errors.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	return nil
}
