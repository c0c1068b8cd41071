package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Positivos Category = "positivos"
	Especiais Category = "especiais"
	Negativos Category = "negativos"
	Graves    Category = "graves"
)

const (
	Neutral Polarity = iota
	Positive
	Negative
)

type (
	// Category labels the nature of an activity.
	Category string

	// Polarity decides which ledger bucket a category feeds.
	Polarity int

	CategoryInfo struct {
		Category          Category
		Label             string
		Polarity          Polarity
		DefaultMultiplier int64
	}

	Child struct {
		ID             int64
		Name           string
		InitialBalance int64
		StartDate      time.Time // zero when unspecified
	}

	Activity struct {
		ID         int64
		ChildID    int64
		Name       string
		Date       time.Time
		Points     int64
		Multiplier int64
		Category   Category
	}

	Expense struct {
		ID          int64
		ChildID     int64
		Description string
		Date        time.Time
		Amount      int64
	}
)

var (
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidMultiplier = errors.New("multiplier must be at least 1")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrInvalidChild      = errors.New("invalid child id")
)

var categories = []CategoryInfo{
	{Category: Positivos, Label: "Atividades Positivas", Polarity: Positive, DefaultMultiplier: 1},
	{Category: Especiais, Label: "Atividades Especiais", Polarity: Positive, DefaultMultiplier: 50},
	{Category: Negativos, Label: "Atividades Negativas", Polarity: Negative, DefaultMultiplier: 1},
	{Category: Graves, Label: "Atividades Graves", Polarity: Negative, DefaultMultiplier: 100},
}

func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Categories returns the built-in categories in display order.
func Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), categories...)
}

// LookupCategory returns the built-in info for c.
func LookupCategory(c Category) (CategoryInfo, bool) {
	for _, info := range categories {
		if info.Category == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

// DefaultMultiplier returns the configured weight for c, or 1 for unknown categories.
func DefaultMultiplier(c Category) int64 {
	if info, ok := LookupCategory(c); ok {
		return info.DefaultMultiplier
	}
	return 1
}

// Amount is the weighted point value of the activity.
func (a Activity) Amount() int64 {
	return a.Points * a.Multiplier
}

func (c Child) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}

func (a Activity) Validate() error {
	if a.ChildID <= 0 {
		return ErrInvalidChild
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if a.Date.IsZero() {
		return ErrZeroDate
	}
	if a.Multiplier < 1 {
		return ErrInvalidMultiplier
	}
	if _, ok := LookupCategory(a.Category); !ok {
		return ErrUnknownCategory
	}
	return nil
}

func (e Expense) Validate() error {
	if e.ChildID <= 0 {
		return ErrInvalidChild
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if e.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
