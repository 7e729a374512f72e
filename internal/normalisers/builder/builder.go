// Package builder canonicalises contractor and owner names so that spelling
// variants of one company collapse onto a single dedup key.
package builder

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.NameNormaliser = (*Normaliser)(nil)

// Suffixes are the corporate suffix tokens, in match order. Longer and more
// specific forms come first so that "l.l.c." never leaves an "l." behind.
var Suffixes = []string{
	"incorporated",
	"corporation",
	"limited liability company",
	"limited partnership",
	"limited",
	"company",
	"l.l.c.",
	"llc",
	"l.l.p.",
	"llp",
	"l.p.",
	"lp",
	"p.c.",
	"pc",
	"inc",
	"corp",
	"ltd",
	"co",
	"plc",
	"ulc",
}

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)

	// suffixRes match a suffix token at the end of the name. The token must
	// be preceded by whitespace or punctuation and may trail punctuation.
	suffixRes = compileSuffixes(`[\s\p{P}]+(?:%s)[\p{P}\s]*$`)

	// markerRes match a suffix token anywhere as a whole word.
	markerRes = compileSuffixes(`(?:^|[^\p{L}\p{N}])(?:%s)(?:$|[^\p{L}\p{N}])`)
)

// compileSuffixes builds one pattern per suffix. The final dot of a dotted
// token is optional, since trailing punctuation may already be trimmed.
func compileSuffixes(pattern string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(Suffixes))
	for i, s := range Suffixes {
		tok := regexp.QuoteMeta(s)
		if strings.HasSuffix(s, ".") {
			tok = regexp.QuoteMeta(strings.TrimSuffix(s, ".")) + `\.?`
		}
		out[i] = regexp.MustCompile(strings.Replace(pattern, "%s", tok, 1))
	}
	return out
}

// Normaliser implements driven.NameNormaliser.
type Normaliser struct{}

// New creates a new name normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalize returns the dedup key for a name.
func (n *Normaliser) Normalize(name string) string {
	return Normalize(name)
}

// IsIncorporated reports whether the name carries a corporate suffix.
func (n *Normaliser) IsIncorporated(name string) bool {
	return IsIncorporated(name)
}

// Normalize folds case, collapses whitespace and strips trailing corporate
// suffixes until none remain, then trims residual punctuation.
// Normalize(Normalize(x)) == Normalize(x) for every x.
//
// A suffix is never stripped if nothing would be left, so "Co" stays "co".
func Normalize(name string) string {
	s := canonical(name)
	s = trimPunct(s)

	for {
		next := trimPunct(stripSuffix(s))
		if next == s || next == "" {
			return s
		}
		s = next
	}
}

// IsIncorporated reports whether name contains a corporate suffix token as a
// whole word. It inspects the original name, not its normalised form, and
// never matches tokens embedded in longer words ("Costco", "Pincorp").
func IsIncorporated(name string) bool {
	s := canonical(name)
	for _, re := range markerRes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// canonical applies compatibility normalisation, folds case and collapses
// whitespace.
func canonical(name string) string {
	s := norm.NFKC.String(name)
	s = norm.NFKC.String(cases.Fold().String(s))
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripSuffix removes the first matching trailing suffix, if any.
func stripSuffix(s string) string {
	for _, re := range suffixRes {
		if loc := re.FindStringIndex(s); loc != nil {
			return s[:loc[0]]
		}
	}
	return s
}

// trimPunct trims leading and trailing punctuation and spaces.
func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}
