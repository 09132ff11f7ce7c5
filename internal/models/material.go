package models

import "github.com/shopspring/decimal"

// Units of measure accepted on a material line.
var UOMs = []string{"SqY", "Sq.Ft", "SqM", "Cum", "FTS", "Kg", "LTR", "Mtr", "Nos", "PRS", "SET"}

// MaterialLine is one material carried by an entry. Lines are owned by their
// parent entry, kept in insertion order, and replaced wholesale on update.
type MaterialLine struct {
	ID       int             `json:"id,omitempty"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	UOM      string          `json:"uom"`
}

// Valid reports whether the line carries a name, a positive quantity and a
// unit of measure.
func (m MaterialLine) Valid() bool {
	return m.Name != "" && m.Quantity.IsPositive() && m.UOM != ""
}

// ValidateMaterials checks every line before anything touches storage, so a
// bad line never leaves a partial material list behind.
func ValidateMaterials(materials []MaterialLine) bool {
	for _, m := range materials {
		if !m.Valid() {
			return false
		}
	}
	return true
}
