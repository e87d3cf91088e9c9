package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

// DateLayout is the wire and storage format of transaction dates.
const DateLayout = "2006-01-02"

type (
	CategoryType string

	Date struct {
		time.Time
	}

	Category struct {
		ID     int64        `json:"id"`
		UserID int64        `json:"user_id"`
		Name   string       `json:"name"`
		Type   CategoryType `json:"type"`
	}

	Transaction struct {
		ID          int64   `json:"id"`
		UserID      int64   `json:"user_id"`
		CategoryID  int64   `json:"category_id"`
		Amount      float64 `json:"amount"`
		Description *string `json:"description"`
		Date        Date    `json:"date"`
	}

	// TransactionPatch carries the fields of a partial update. Nil fields are left untouched.
	TransactionPatch struct {
		Amount      *float64 `json:"amount"`
		Description *string  `json:"description"`
		Date        *Date    `json:"date"`
		CategoryID  *int64   `json:"category_id"`
	}

	Budget struct {
		ID          int64   `json:"id"`
		UserID      int64   `json:"user_id"`
		CategoryID  int64   `json:"category_id"`
		Month       string  `json:"month"`
		LimitAmount float64 `json:"limit_amount"`
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// CalendarMonth returns the calendar month the date falls in.
func (d Date) CalendarMonth() Month {
	return Month{Year: d.Year(), Number: int(d.Time.Month())}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidCategoryType
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.CategoryID == 0 {
		return ErrMissingCategory
	}
	return t.Date.Validate()
}

// Apply copies every non-nil patch field onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
}

func (b Budget) Validate() error {
	if b.CategoryID == 0 {
		return ErrMissingCategory
	}
	return nil
}
