package core

import (
	"errors"
	"testing"
	"time"
)

func TestActivityValidate(t *testing.T) {
	good := Activity{
		ChildID:    1,
		Name:       "Dormir cedo",
		Date:       time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Points:     1,
		Multiplier: 1,
		Category:   Positivos,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Activity)
		want   error
	}{
		{func(a *Activity) { a.ChildID = 0 }, ErrInvalidChild},
		{func(a *Activity) { a.Name = "  " }, ErrEmptyName},
		{func(a *Activity) { a.Date = time.Time{} }, ErrZeroDate},
		{func(a *Activity) { a.Multiplier = 0 }, ErrInvalidMultiplier},
		{func(a *Activity) { a.Category = "outros" }, ErrUnknownCategory},
	}
	for i, tc := range cases {
		a := good
		tc.mutate(&a)
		if err := a.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ChildID: 1, Description: "Sorvete", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Amount: 5}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := good
	zero.Amount = 0
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be allowed, got %v", err)
	}

	bads := []Expense{
		{ChildID: 0, Description: "a", Date: good.Date, Amount: 1},
		{ChildID: 1, Description: "", Date: good.Date, Amount: 1},
		{ChildID: 1, Description: "a", Date: time.Time{}, Amount: 1},
		{ChildID: 1, Description: "a", Date: good.Date, Amount: -1},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestChildValidate(t *testing.T) {
	if err := (Child{Name: "Ana"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Child{Name: ""}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestCategoryTable(t *testing.T) {
	cases := []struct {
		c        Category
		polarity Polarity
		mult     int64
	}{
		{Positivos, Positive, 1},
		{Especiais, Positive, 50},
		{Negativos, Negative, 1},
		{Graves, Negative, 100},
	}
	for _, tc := range cases {
		info, ok := LookupCategory(tc.c)
		if !ok {
			t.Fatalf("%s not found", tc.c)
		}
		if info.Polarity != tc.polarity || info.DefaultMultiplier != tc.mult {
			t.Fatalf("%s: got %v x%d", tc.c, info.Polarity, info.DefaultMultiplier)
		}
	}
	if _, ok := LookupCategory("outros"); ok {
		t.Fatal("unexpected category found")
	}
	if got := DefaultMultiplier("outros"); got != 1 {
		t.Fatalf("unknown category multiplier = %d, want 1", got)
	}
}

func TestDefaultActivitiesCatalog(t *testing.T) {
	acts := DefaultActivities()
	if len(acts) != 26 {
		t.Fatalf("expected 26 default activities, got %d", len(acts))
	}
	for _, a := range acts {
		info, ok := LookupCategory(a.Category)
		if !ok {
			t.Fatalf("%s has unknown category %q", a.Code, a.Category)
		}
		if info.Polarity == Negative && a.Points >= 0 {
			t.Fatalf("%s: negative category with non-negative points", a.Code)
		}
		if info.Polarity == Positive && a.Points <= 0 {
			t.Fatalf("%s: positive category with non-positive points", a.Code)
		}
	}

	acts[0].Name = "changed"
	if got, _ := FindDefaultActivity("pos-1"); got.Name == "changed" {
		t.Fatal("DefaultActivities must return a copy")
	}
}
