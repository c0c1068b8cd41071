package balance

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil {
		t.Fatalf("default zone: %v", err)
	}
	_, offset := time.Date(2024, 7, 1, 12, 0, 0, 0, loc).Zone()
	if offset != -3*60*60 {
		t.Fatalf("default zone offset = %d, want -10800", offset)
	}

	if _, err := LoadLocation("Local"); err == nil {
		t.Fatal("expected error for Local")
	}
	if _, err := LoadLocation("Nowhere/Invalid"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
	if loc, err := LoadLocation("UTC"); err != nil || loc != time.UTC {
		t.Fatalf("UTC: loc=%v err=%v", loc, err)
	}
}

func TestDaySpan(t *testing.T) {
	cases := []struct {
		start, now time.Time
		want       int
	}{
		{at(2024, 1, 1, 0, 0), at(2024, 1, 1, 23, 59), 1},
		{at(2024, 1, 1, 23, 0), at(2024, 1, 2, 0, 30), 2},
		{at(2024, 2, 28, 8, 0), at(2024, 3, 1, 8, 0), 3}, // leap year
		{at(2023, 12, 31, 8, 0), at(2024, 12, 31, 8, 0), 367},
		{at(2024, 5, 1, 0, 0), at(2024, 4, 1, 0, 0), 1},
		{at(1900, 1, 1, 0, 0), at(2300, 1, 1, 0, 0), 146098},
	}
	for i, tc := range cases {
		if got := DaySpan(tc.start, tc.now, utcMinus3); got != tc.want {
			t.Fatalf("case %d: DaySpan = %d, want %d", i, got, tc.want)
		}
	}
}

func TestFormatAndStartOfDay(t *testing.T) {
	instant := time.Date(2024, 3, 5, 2, 15, 0, 0, time.UTC) // 23:15 on the 4th at UTC-3
	if got := FormatDate(instant, utcMinus3); got != "04/03/2024" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := StartOfDay(instant, utcMinus3); !got.Equal(at(2024, 3, 4, 0, 0)) {
		t.Fatalf("StartOfDay = %v", got)
	}
}

func TestStartOfDaySkippedMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	cases := []struct {
		instant time.Time
		want    time.Time
	}{
		// clocks jumped from 00:00 to 01:00 on 2018-11-04
		{time.Date(2018, 11, 4, 9, 0, 0, 0, time.UTC), time.Date(2018, 11, 4, 3, 0, 0, 0, time.UTC)},
		{time.Date(2018, 11, 3, 12, 0, 0, 0, time.UTC), time.Date(2018, 11, 3, 3, 0, 0, 0, time.UTC)},
		{time.Date(2018, 11, 5, 12, 0, 0, 0, time.UTC), time.Date(2018, 11, 5, 2, 0, 0, 0, time.UTC)},
		// fall back repeats 23:00, midnight exists once
		{time.Date(2019, 2, 17, 12, 0, 0, 0, time.UTC), time.Date(2019, 2, 17, 3, 0, 0, 0, time.UTC)},
	}
	for i, tc := range cases {
		got := StartOfDay(tc.instant, loc)
		if !got.Equal(tc.want) {
			t.Fatalf("case %d: StartOfDay = %v, want %v", i, got.UTC(), tc.want)
		}
		if again := StartOfDay(got, loc); !again.Equal(got) {
			t.Fatalf("case %d: StartOfDay not idempotent: %v then %v", i, got, again)
		}
		if FormatDate(got, loc) != FormatDate(tc.instant, loc) {
			t.Fatalf("case %d: start %v is on another day than %v", i, got, tc.instant)
		}
	}
}
