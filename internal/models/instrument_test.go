package models

import (
	"encoding/json"
	"testing"
)

func TestInstrumentType_IsValid(t *testing.T) {
	for _, typ := range AllInstrumentTypes() {
		if !typ.IsValid() {
			t.Errorf("Expected %s to be valid", typ)
		}
		if typ.DisplayName() == "" {
			t.Errorf("Expected display name for %s", typ)
		}
	}
	if InstrumentType("option").IsValid() {
		t.Error("Expected unknown type to be invalid")
	}
}

func TestInstrument_Prices(t *testing.T) {
	inst := &Instrument{ID: "x", Type: InstrumentStock, PriceHistory: monthly(100, 110)}

	if inst.LatestPrice() != 110 {
		t.Errorf("Expected latest price 110, got %v", inst.LatestPrice())
	}
	if inst.PreviousPrice() != 100 {
		t.Errorf("Expected previous price 100, got %v", inst.PreviousPrice())
	}
	if change := inst.Change(); change < 9.999 || change > 10.001 {
		t.Errorf("Expected change 10%%, got %v", change)
	}

	summary := inst.Summary()
	if summary.Price != 110 || summary.TypeName != "Aktie" {
		t.Errorf("Unexpected summary %+v", summary)
	}
}

func TestInstrument_PricesWithoutHistory(t *testing.T) {
	inst := &Instrument{ID: "empty"}
	if inst.LatestPrice() != 0 || inst.PreviousPrice() != 0 || inst.Change() != 0 {
		t.Error("Expected zero prices for an empty history")
	}
}

func TestDate_JSON(t *testing.T) {
	var p PricePoint
	if err := json.Unmarshal([]byte(`{"date":"2024-03-15","close":42.5}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Date.String() != "2024-03-15" {
		t.Errorf("Expected 2024-03-15, got %s", p.Date)
	}

	out, err := json.Marshal(p.Date)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `"2024-03-15"` {
		t.Errorf("Expected quoted date, got %s", out)
	}

	if err := json.Unmarshal([]byte(`{"date":"15.03.2024"}`), &p); err == nil {
		t.Error("Expected error for a non ISO date")
	}
}

func TestDate_Before(t *testing.T) {
	a := MustParseDate("2024-01-01")
	b := MustParseDate("2024-01-02")
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Error("Before ordering is wrong")
	}
}
