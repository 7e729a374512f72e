// Package permit maps elements of the municipal bulk export into canonical
// permits: Decode turns a JSON element into a raw upstream record and Map
// converts that record into a typed domain.Permit.
package permit

import (
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.PermitNormaliser = (*Normaliser)(nil)

// Normaliser handles bulk export permit records.
type Normaliser struct{}

// New creates a new permit normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Decode converts one export element into a raw permit.
func (n *Normaliser) Decode(elem domain.RawElement) (domain.RawPermit, error) {
	return Decode(elem)
}

// Map converts a raw permit into its canonical form.
func (n *Normaliser) Map(raw domain.RawPermit) (*domain.Permit, error) {
	return Map(raw)
}
