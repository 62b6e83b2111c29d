package util

import (
    "testing"
    "time"
)

func TestTradingDateUsesExchangeZone(t *testing.T) {
    ny := LoadLocation("America/New_York")
    // 2024-03-01 14:30 UTC is 09:30 in New York, same day.
    ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC).Unix()
    got := TradingDate(ts, ny)
    if DateKey(got) != "2024-03-01" {
        t.Fatalf("unexpected date %s", DateKey(got))
    }
    if got.Location() != time.UTC {
        t.Fatalf("expected UTC midnight, got %v", got.Location())
    }
}

func TestTradingDateCrossesMidnight(t *testing.T) {
    tokyo := LoadLocation("Asia/Tokyo")
    // 2024-03-01 20:00 UTC is already 2024-03-02 in Tokyo.
    ts := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC).Unix()
    if got := DateKey(TradingDate(ts, tokyo)); got != "2024-03-02" {
        t.Fatalf("unexpected date %s", got)
    }
}

func TestLoadLocationFallsBack(t *testing.T) {
    if LoadLocation("Not/AZone") != time.UTC {
        t.Fatalf("expected UTC fallback")
    }
    if LoadLocation("") != time.UTC {
        t.Fatalf("expected UTC for empty name")
    }
}

func TestYearsBefore(t *testing.T) {
    d := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
    if got := DateKey(YearsBefore(d, 3)); got != "2021-06-14" {
        t.Fatalf("unexpected date %s", got)
    }
}

func TestNormalizeTicker(t *testing.T) {
    if got := NormalizeTicker("  brk-b "); got != "BRK-B" {
        t.Fatalf("unexpected ticker %q", got)
    }
}
