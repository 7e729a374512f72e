package changedetect

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func sampleRaw() domain.RawPermit {
	return domain.RawPermit{
		"PERMIT_NUM":     "23 145678 BLD",
		"REVISION_NUM":   "01",
		"WORK":           "Interior Alterations",
		"STREET_NAME":    "QUEEN",
		"ISSUED_DATE":    "2023-03-02T00:00:00",
		"EST_CONST_COST": "DO NOT UPDATE OR DELETE",
		"BUILDER_NAME":   "Smith & Sons, L.P.",
		"DESCRIPTION":    "Café <deck> & \"porch\"",
	}
}

func samplePermit() *domain.Permit {
	issued := time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Permit{
		PermitNum:    "23 145678 BLD",
		RevisionNum:  "01",
		Work:         ptr("Interior Alterations"),
		StreetName:   ptr("QUEEN"),
		IssuedDate:   &issued,
		BuilderName:  ptr("Smith & Sons, L.P."),
		BuilderKey:   ptr("smith & sons"),
		EstConstCost: ptr(125000.5),
		Storeys:      2,
	}
}

func TestHash_Format(t *testing.T) {
	h, err := Hash(sampleRaw())
	require.NoError(t, err)
	assert.Len(t, h, 64)
	assert.Regexp(t, `^[0-9a-f]{64}$`, h)
}

func TestHash_InvalidUTF8Rejected(t *testing.T) {
	for _, raw := range []domain.RawPermit{
		{"DESCRIPTION": "roof \xff"},
		{"DESCRIPTION": "roof \xfe"},
		{"DESCR\xffIPTION": "roof"},
	} {
		h, err := Hash(raw)
		assert.ErrorIs(t, err, domain.ErrUnexpectedType)
		assert.Empty(t, h)
	}
}

func TestHash_ReplacementCharacterDistinct(t *testing.T) {
	replaced, err := Hash(domain.RawPermit{"DESCRIPTION": "roof \uFFFD"})
	require.NoError(t, err)
	plain, err := Hash(domain.RawPermit{"DESCRIPTION": "roof "})
	require.NoError(t, err)
	assert.NotEqual(t, replaced, plain)
}

func TestHash_Deterministic(t *testing.T) {
	a, err := Hash(sampleRaw())
	require.NoError(t, err)
	b, err := Hash(sampleRaw())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHash_OrderInvariant(t *testing.T) {
	raw := sampleRaw()
	want, err := Hash(raw)
	require.NoError(t, err)

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		rng.Shuffle(len(keys), func(a, b int) { keys[a], keys[b] = keys[b], keys[a] })
		permuted := make(domain.RawPermit, len(raw))
		for _, k := range keys {
			permuted[k] = raw[k]
		}
		got, err := Hash(permuted)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestHash_Sensitive(t *testing.T) {
	base := sampleRaw()
	baseHash, err := Hash(base)
	require.NoError(t, err)

	seen := map[string]string{baseHash: "base"}
	for k := range base {
		for _, edit := range []string{base[k] + " ", base[k] + "x", ""} {
			changed := base.Clone()
			changed[k] = edit
			h, err := Hash(changed)
			require.NoError(t, err)

			label := fmt.Sprintf("%s=%q", k, edit)
			prev, dup := seen[h]
			assert.False(t, dup, "%s collides with %s", label, prev)
			seen[h] = label
		}
	}

	// Removing a field is a change too.
	removed := base.Clone()
	delete(removed, "WORK")
	h, err := Hash(removed)
	require.NoError(t, err)
	assert.NotEqual(t, baseHash, h)

	// So is adding one.
	added := base.Clone()
	added["OWNER"] = "Jane Doe"
	h, err = Hash(added)
	require.NoError(t, err)
	assert.NotEqual(t, baseHash, h)
}

func TestHash_EmptyAndNil(t *testing.T) {
	a, err := Hash(nil)
	require.NoError(t, err)
	b, err := Hash(domain.RawPermit{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDiff_SameRecordIsEmpty(t *testing.T) {
	p := samplePermit()
	assert.Empty(t, Diff(p, p))

	clone := *p
	assert.Empty(t, Diff(p, &clone))
}

func TestDiff_ExactlyTwoFields(t *testing.T) {
	old := samplePermit()
	updated := samplePermit()
	updated.Work = ptr("New Building")
	updated.Storeys = 3

	changes := Diff(old, updated)
	require.Len(t, changes, 2)

	assert.Equal(t, domain.FieldStoreys, changes[0].Field)
	assert.Equal(t, "2", *changes[0].OldValue)
	assert.Equal(t, "3", *changes[0].NewValue)

	assert.Equal(t, domain.FieldWork, changes[1].Field)
	assert.Equal(t, "Interior Alterations", *changes[1].OldValue)
	assert.Equal(t, "New Building", *changes[1].NewValue)
}

func TestDiff_NullTransitions(t *testing.T) {
	old := samplePermit()
	updated := samplePermit()
	updated.EstConstCost = nil
	updated.Owner = ptr("Jane Doe")

	changes := Diff(old, updated)
	require.Len(t, changes, 2)

	assert.Equal(t, domain.FieldEstConstCost, changes[0].Field)
	assert.Equal(t, "125000.5", *changes[0].OldValue)
	assert.Nil(t, changes[0].NewValue)

	assert.Equal(t, domain.FieldOwner, changes[1].Field)
	assert.Nil(t, changes[1].OldValue)
	assert.Equal(t, "Jane Doe", *changes[1].NewValue)
}

func TestDiff_DatesComparedAsAbsoluteTime(t *testing.T) {
	old := samplePermit()
	updated := samplePermit()
	sameInstant := old.IssuedDate.In(time.FixedZone("EST", -5*3600))
	updated.IssuedDate = &sameInstant

	assert.Empty(t, Diff(old, updated))

	later := old.IssuedDate.Add(24 * time.Hour)
	updated.IssuedDate = &later
	changes := Diff(old, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.FieldIssuedDate, changes[0].Field)
	assert.Equal(t, "2023-03-03T00:00:00Z", *changes[0].NewValue)
}

func TestDiff_IgnoresBookkeeping(t *testing.T) {
	old := samplePermit()
	old.ContentHash = "aaa"
	old.FirstSeenAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old.LastSeenAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	updated := samplePermit()
	updated.ContentHash = "bbb"

	assert.Empty(t, Diff(old, updated))
}

func TestDiff_NilSide(t *testing.T) {
	p := samplePermit()
	changes := Diff(nil, p)

	// Every non-nil field of p shows up as new.
	nonNil := 0
	for _, v := range p.Fields() {
		if v != nil {
			nonNil++
		}
	}
	assert.Len(t, changes, nonNil)
	for _, c := range changes {
		assert.Nil(t, c.OldValue)
		assert.NotNil(t, c.NewValue)
	}

	assert.Empty(t, Diff(nil, nil))
}

func TestDetector_Interface(t *testing.T) {
	d := New()
	h1, err := d.Hash(sampleRaw())
	require.NoError(t, err)
	h2, err := Hash(sampleRaw())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Empty(t, d.Diff(samplePermit(), samplePermit()))
}
