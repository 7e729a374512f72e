package permit

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// Map converts a raw permit into its canonical form. It is pure.
//
// Field names are matched case-insensitively. PERMIT_NUM and REVISION_NUM
// must be present and non-blank, otherwise domain.ErrMissingKey is returned.
// Every other field maps leniently: unusable dates and costs become nil,
// unusable counts become zero, blank strings become nil.
//
// BuilderKey and BuilderIncorporated are left for the name normaliser.
func Map(raw domain.RawPermit) (*domain.Permit, error) {
	f := fold(raw)

	permitNum := strings.TrimSpace(f[KeyPermitNum])
	revisionNum := strings.TrimSpace(f[KeyRevisionNum])
	if permitNum == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingKey, KeyPermitNum)
	}
	if revisionNum == "" {
		return nil, fmt.Errorf("%w: %s (permit %s)", domain.ErrMissingKey, KeyRevisionNum, permitNum)
	}

	return &domain.Permit{
		PermitNum:   permitNum,
		RevisionNum: revisionNum,

		PermitType:    parseString(f[KeyPermitType]),
		StructureType: parseString(f[KeyStructureType]),
		Work:          parseString(f[KeyWork]),

		StreetNum:       parseString(f[KeyStreetNum]),
		StreetName:      parseString(f[KeyStreetName]),
		StreetType:      parseString(f[KeyStreetType]),
		StreetDirection: parseString(f[KeyStreetDirection]),
		Postal:          parseString(f[KeyPostal]),
		GeoID:           parseString(f[KeyGeoID]),
		WardGrid:        parseString(f[KeyWardGrid]),

		ApplicationDate: ParseDate(f[KeyApplicationDate]),
		IssuedDate:      ParseDate(f[KeyIssuedDate]),
		CompletedDate:   ParseDate(f[KeyCompletedDate]),

		Status:      parseString(f[KeyStatus]),
		Description: parseString(f[KeyDescription]),
		CurrentUse:  parseString(f[KeyCurrentUse]),
		ProposedUse: parseString(f[KeyProposedUse]),
		BuilderName: parseString(f[KeyBuilderName]),
		Owner:       parseString(f[KeyOwner]),

		EstConstCost: ParseCost(f[KeyEstConstCost]),

		DwellingUnitsCreated: ParseCount(f[KeyDwellingUnitsCreated]),
		DwellingUnitsLost:    ParseCount(f[KeyDwellingUnitsLost]),
		HousingUnits:         ParseCount(f[KeyHousingUnits]),
		Storeys:              ParseCount(f[KeyStoreys]),
	}, nil
}

// fold indexes raw by upper-cased, trimmed field name. When two keys fold
// together the one already in upper case wins, then the lexically first.
func fold(raw domain.RawPermit) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(raw))
	for _, k := range keys {
		u := strings.ToUpper(strings.TrimSpace(k))
		if _, seen := out[u]; !seen || k == u {
			out[u] = raw[k]
		}
	}
	return out
}

func parseString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseDate parses a free-form upstream date. Blank or unparseable input
// returns nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseCost parses a currency-like upstream value. The feed's sentinel,
// blank input and anything that is not a finite number after scrubbing
// return nil.
func ParseCost(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, CostSentinel) {
		return nil
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case (r == '-' || r == '+') && i == 0:
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// ParseCount parses an integer count. Unparseable input is zero, and so is
// any count outside the int32 range. Integral decimals such as "2.0" are
// accepted.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		return int(f)
	}
	return 0
}
