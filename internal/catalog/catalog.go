// Package catalog provides the static, read-only set of instruments, quizzes
// and glossary entries. The data is embedded in the binary and decoded once.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/findosh/finlearn/internal/models"
)

//go:embed data/*.json
var files embed.FS

// Catalog is the loaded data set. It is safe for concurrent use since it
// never changes after loading.
type Catalog struct {
	instruments []*models.Instrument
	byID        map[string]*models.Instrument
	quizzes     []*models.Quiz
	quizByID    map[string]*models.Quiz
	glossary    []models.GlossaryEntry
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, loading it on first use
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(
			mustRead("data/instruments.json"),
			mustRead("data/quizzes.json"),
			mustRead("data/glossary.json"),
		)
	})
	return defaultCatalog, defaultErr
}

func mustRead(name string) []byte {
	data, err := files.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Load decodes a catalog from raw JSON documents. Price histories are sorted
// chronologically; duplicate instrument IDs, quiz IDs or price dates are
// rejected.
func Load(instrumentsJSON, quizzesJSON, glossaryJSON []byte) (*Catalog, error) {
	c := &Catalog{
		byID:     make(map[string]*models.Instrument),
		quizByID: make(map[string]*models.Quiz),
	}

	if err := json.Unmarshal(instrumentsJSON, &c.instruments); err != nil {
		return nil, fmt.Errorf("failed to decode instruments: %w", err)
	}
	for _, inst := range c.instruments {
		if err := validateInstrument(inst); err != nil {
			return nil, err
		}
		if _, exists := c.byID[inst.ID]; exists {
			return nil, fmt.Errorf("duplicate instrument id %q", inst.ID)
		}
		c.byID[inst.ID] = inst
	}

	if len(quizzesJSON) > 0 {
		if err := json.Unmarshal(quizzesJSON, &c.quizzes); err != nil {
			return nil, fmt.Errorf("failed to decode quizzes: %w", err)
		}
	}
	for _, q := range c.quizzes {
		if _, exists := c.quizByID[q.ID]; exists {
			return nil, fmt.Errorf("duplicate quiz id %q", q.ID)
		}
		c.quizByID[q.ID] = q
	}

	if len(glossaryJSON) > 0 {
		if err := json.Unmarshal(glossaryJSON, &c.glossary); err != nil {
			return nil, fmt.Errorf("failed to decode glossary: %w", err)
		}
	}
	sort.SliceStable(c.glossary, func(i, j int) bool {
		return c.glossary[i].Term < c.glossary[j].Term
	})

	return c, nil
}

func validateInstrument(inst *models.Instrument) error {
	if inst.ID == "" {
		return fmt.Errorf("instrument %q has no id", inst.Ticker)
	}
	if !inst.Type.IsValid() {
		return fmt.Errorf("instrument %q has unknown type %q", inst.ID, inst.Type)
	}

	sort.SliceStable(inst.PriceHistory, func(i, j int) bool {
		return inst.PriceHistory[i].Date.Before(inst.PriceHistory[j].Date)
	})
	for i, p := range inst.PriceHistory {
		if p.Close < 0 {
			return fmt.Errorf("instrument %q has negative close on %s", inst.ID, p.Date)
		}
		if i > 0 && p.Date.Equal(inst.PriceHistory[i-1].Date.Time) {
			return fmt.Errorf("instrument %q has duplicate price date %s", inst.ID, p.Date)
		}
	}
	return nil
}

// List returns all instruments in catalog order
func (c *Catalog) List() []*models.Instrument {
	return c.instruments
}

// ListByType returns the instruments of one type
func (c *Catalog) ListByType(t models.InstrumentType) []*models.Instrument {
	var out []*models.Instrument
	for _, inst := range c.instruments {
		if inst.Type == t {
			out = append(out, inst)
		}
	}
	return out
}

// Instrument looks up an instrument by ID
func (c *Catalog) Instrument(id string) (*models.Instrument, bool) {
	inst, ok := c.byID[id]
	return inst, ok
}

// Resolve looks up an instrument by ID or, ignoring case, by ticker
func (c *Catalog) Resolve(ref string) (*models.Instrument, bool) {
	ref = strings.TrimSpace(ref)
	if inst, ok := c.byID[ref]; ok {
		return inst, true
	}
	for _, inst := range c.instruments {
		if strings.EqualFold(inst.ID, ref) || strings.EqualFold(inst.Ticker, ref) {
			return inst, true
		}
	}
	return nil, false
}

// Quizzes returns all quizzes in catalog order
func (c *Catalog) Quizzes() []*models.Quiz {
	return c.quizzes
}

// Quiz looks up a quiz by ID
func (c *Catalog) Quiz(id string) (*models.Quiz, bool) {
	q, ok := c.quizByID[id]
	return q, ok
}

// Glossary returns all glossary entries sorted by term
func (c *Catalog) Glossary() []models.GlossaryEntry {
	return c.glossary
}
