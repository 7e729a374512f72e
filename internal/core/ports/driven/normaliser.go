package driven

import "github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"

// PermitNormaliser turns export elements into canonical permits.
type PermitNormaliser interface {
	// Decode converts one export element into a raw permit.
	// Returns domain.ErrUnexpectedType for anything but a flat object of scalars.
	Decode(elem domain.RawElement) (domain.RawPermit, error)

	// Map converts a raw permit into its canonical form.
	// Returns domain.ErrMissingKey when the natural key is absent.
	Map(raw domain.RawPermit) (*domain.Permit, error)
}

// NameNormaliser canonicalises free-text contractor and owner names.
type NameNormaliser interface {
	// Normalize returns the dedup key for a name.
	Normalize(name string) string

	// IsIncorporated reports whether the name carries a corporate suffix.
	IsIncorporated(name string) bool
}
