package models

// GlossaryEntry explains one finance term
type GlossaryEntry struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Category   string `json:"category"`
}
