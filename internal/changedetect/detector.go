// Package changedetect fingerprints raw permit records and computes
// field-level deltas between canonical ones.
package changedetect

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/anand-gl/jsoncanonicalizer"
	jsoniter "github.com/json-iterator/go"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// Ensure Detector implements the interface.
var _ driven.ChangeDetector = (*Detector)(nil)

// Detector implements driven.ChangeDetector.
type Detector struct{}

// New creates a new change detector.
func New() *Detector {
	return &Detector{}
}

// Hash returns the content hash of a raw record.
func (d *Detector) Hash(raw domain.RawPermit) (string, error) {
	return Hash(raw)
}

// Diff returns the field changes between two canonical records.
func (d *Detector) Diff(old, updated *domain.Permit) []domain.PermitChange {
	return Diff(old, updated)
}

// Hash returns the hex SHA-256 of the record's RFC 8785 canonical JSON form.
// Key order never affects the result.
//
// Keys and values must be valid UTF-8; JSON encoding would replace invalid
// bytes with U+FFFD and give distinct records the same hash.
func Hash(raw domain.RawPermit) (string, error) {
	if raw == nil {
		raw = domain.RawPermit{}
	}
	for k, v := range raw {
		if !utf8.ValidString(k) || !utf8.ValidString(v) {
			return "", fmt.Errorf("%w: field %q is not valid UTF-8", domain.ErrUnexpectedType, k)
		}
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]string(raw))
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return "", fmt.Errorf("canonicalize record: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Diff compares the stringified fields of old and updated and returns one
// change per differing field, ordered by field name. Bookkeeping fields are
// never compared. Absent and nil values are equal. A nil record has no fields.
//
// The returned changes carry only Field, OldValue and NewValue.
func Diff(old, updated *domain.Permit) []domain.PermitChange {
	before := fieldsOf(old)
	after := fieldsOf(updated)

	names := make(map[string]struct{}, len(before)+len(after))
	for name := range before {
		names[name] = struct{}{}
	}
	for name := range after {
		names[name] = struct{}{}
	}

	var changes []domain.PermitChange
	for name := range names {
		if domain.IsBookkeepingField(name) {
			continue
		}
		o, n := before[name], after[name]
		if equal(o, n) {
			continue
		}
		changes = append(changes, domain.PermitChange{
			Field:    name,
			OldValue: o,
			NewValue: n,
		})
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Field < changes[j].Field
	})
	return changes
}

func fieldsOf(p *domain.Permit) map[string]*string {
	if p == nil {
		return nil
	}
	return p.Fields()
}

func equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
