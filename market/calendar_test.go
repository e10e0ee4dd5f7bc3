package market

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayTruncates(t *testing.T) {
	in := time.Date(2024, 3, 15, 14, 30, 45, 123, time.UTC)
	got := Day(in)
	want := date(2024, 3, 15)
	if !got.Equal(want) {
		t.Fatalf("Day(%v) = %v, want %v", in, got, want)
	}
}

func TestIsTradingDay(t *testing.T) {
	// 2024-03-15 is a Friday, 16th/17th the weekend.
	if !IsTradingDay(date(2024, 3, 15)) {
		t.Errorf("Friday should be a trading day")
	}
	if IsTradingDay(date(2024, 3, 16)) {
		t.Errorf("Saturday should not be a trading day")
	}
	if IsTradingDay(date(2024, 3, 17)) {
		t.Errorf("Sunday should not be a trading day")
	}
	if !IsTradingDay(date(2024, 3, 18)) {
		t.Errorf("Monday should be a trading day")
	}
}

func TestTradingDaysSkipsWeekends(t *testing.T) {
	// Fri 2024-03-15 .. Mon 2024-03-18 inclusive: Fri + Mon only.
	days := TradingDays(date(2024, 3, 15), date(2024, 3, 18))
	if len(days) != 2 {
		t.Fatalf("expected 2 trading days, got %d: %v", len(days), days)
	}
	if !days[0].Equal(date(2024, 3, 15)) || !days[1].Equal(date(2024, 3, 18)) {
		t.Fatalf("unexpected days: %v", days)
	}
}

func TestTradingDaysSingleDay(t *testing.T) {
	days := TradingDays(date(2024, 3, 15), date(2024, 3, 15))
	if len(days) != 1 {
		t.Fatalf("expected 1 trading day, got %d", len(days))
	}
}

func TestTradingDaysEmptyForWeekend(t *testing.T) {
	days := TradingDays(date(2024, 3, 16), date(2024, 3, 17))
	if len(days) != 0 {
		t.Fatalf("expected no trading days over a weekend, got %v", days)
	}
}
