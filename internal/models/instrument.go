package models

// InstrumentType categorizes catalog instruments
type InstrumentType string

const (
	InstrumentStock  InstrumentType = "stock"
	InstrumentETF    InstrumentType = "etf"
	InstrumentBond   InstrumentType = "bond"
	InstrumentCrypto InstrumentType = "crypto"
)

// AllInstrumentTypes returns all valid instrument types for iteration
func AllInstrumentTypes() []InstrumentType {
	return []InstrumentType{
		InstrumentStock,
		InstrumentETF,
		InstrumentBond,
		InstrumentCrypto,
	}
}

// IsValid reports whether t is one of the known instrument types
func (t InstrumentType) IsValid() bool {
	for _, known := range AllInstrumentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName returns the label shown to learners
func (t InstrumentType) DisplayName() string {
	switch t {
	case InstrumentStock:
		return "Aktie"
	case InstrumentETF:
		return "ETF"
	case InstrumentBond:
		return "Anleihe"
	case InstrumentCrypto:
		return "Krypto"
	default:
		return string(t)
	}
}

// PricePoint is one bar of an instrument's price history.
// Only Date and Close feed the calculations.
type PricePoint struct {
	Date   Date    `json:"date"`
	Open   float64 `json:"open,omitempty"`
	High   float64 `json:"high,omitempty"`
	Low    float64 `json:"low,omitempty"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume,omitempty"`
}

// Instrument is a read-only catalog entry
type Instrument struct {
	ID           string         `json:"id"`
	Ticker       string         `json:"ticker"`
	Name         string         `json:"name"`
	Type         InstrumentType `json:"type"`
	Description  string         `json:"description"`
	Sector       string         `json:"sector"`
	Currency     string         `json:"currency"`
	PriceHistory []PricePoint   `json:"price_history"`

	// Type-specific fields, absent when not applicable
	MarketCap         *float64 `json:"market_cap,omitempty"`         // stock, crypto
	PERatio           *float64 `json:"pe_ratio,omitempty"`           // stock
	ExpenseRatio      *float64 `json:"expense_ratio,omitempty"`      // etf, TER in percent
	AUM               *float64 `json:"aum,omitempty"`                // etf
	Coupon            *float64 `json:"coupon,omitempty"`             // bond, percent
	Maturity          *Date    `json:"maturity,omitempty"`           // bond
	CirculatingSupply *float64 `json:"circulating_supply,omitempty"` // crypto
}

// LatestPrice returns the last close, or 0 without history
func (i *Instrument) LatestPrice() float64 {
	if len(i.PriceHistory) == 0 {
		return 0
	}
	return i.PriceHistory[len(i.PriceHistory)-1].Close
}

// PreviousPrice returns the close before the latest one, or 0
func (i *Instrument) PreviousPrice() float64 {
	if len(i.PriceHistory) < 2 {
		return 0
	}
	return i.PriceHistory[len(i.PriceHistory)-2].Close
}

// Change returns the percent move between the two latest closes
func (i *Instrument) Change() float64 {
	prev := i.PreviousPrice()
	if prev == 0 {
		return 0
	}
	return (i.LatestPrice() - prev) / prev * 100
}

// InstrumentSummary is the list view of an instrument
type InstrumentSummary struct {
	ID           string         `json:"id"`
	Ticker       string         `json:"ticker"`
	Name         string         `json:"name"`
	Type         InstrumentType `json:"type"`
	TypeName     string         `json:"type_name"`
	Sector       string         `json:"sector"`
	Currency     string         `json:"currency"`
	Price        float64        `json:"price"`
	Change       float64        `json:"change"`
	ExpenseRatio *float64       `json:"expense_ratio,omitempty"`
}

// Summary builds the list view
func (i *Instrument) Summary() InstrumentSummary {
	return InstrumentSummary{
		ID:           i.ID,
		Ticker:       i.Ticker,
		Name:         i.Name,
		Type:         i.Type,
		TypeName:     i.Type.DisplayName(),
		Sector:       i.Sector,
		Currency:     i.Currency,
		Price:        i.LatestPrice(),
		Change:       i.Change(),
		ExpenseRatio: i.ExpenseRatio,
	}
}
