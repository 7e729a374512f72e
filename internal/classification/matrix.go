// Package classification maps permit scope tags onto the product groups
// used to route leads to suppliers.
//
// The matrix is static data. Every function here is pure and safe for
// concurrent use.
package classification

import (
	"regexp"
	"sort"
	"strings"
)

// unitFamilyRe collapses multi-unit variants such as "houseplex-3-unit"
// onto their base key.
var unitFamilyRe = regexp.MustCompile(`^(.+)-\d+-units?$`)

// prefixRe matches a structured prefix such as "new:" or "alter:".
var prefixRe = regexp.MustCompile(`^[a-z0-9_]+:`)

// matrix maps a normalised tag key to its product groups.
var matrix = map[string][]string{
	"kitchen":      {"kitchen-cabinets", "countertops", "appliances", "plumbing-fixtures", "flooring", "electrical"},
	"bathroom":     {"plumbing-fixtures", "tile", "vanities", "flooring", "ventilation"},
	"basement":     {"drywall", "insulation", "flooring", "framing-lumber", "waterproofing", "egress-windows"},
	"addition":     {"framing-lumber", "concrete", "roofing", "windows", "doors", "insulation", "drywall"},
	"deck":         {"decking", "framing-lumber", "fasteners", "railings"},
	"porch":        {"decking", "framing-lumber", "railings", "concrete"},
	"garage":       {"garage-doors", "concrete", "framing-lumber", "roofing", "electrical"},
	"pool":         {"pool-equipment", "concrete", "fencing", "landscaping"},
	"fence":        {"fencing", "landscaping"},
	"roofing":      {"roofing", "insulation", "eavestroughs"},
	"windows":      {"windows", "doors"},
	"underpinning": {"concrete", "waterproofing", "excavation"},
	"sfd":          {"framing-lumber", "concrete", "roofing", "windows", "doors", "insulation", "drywall", "hvac", "plumbing-fixtures", "electrical", "flooring", "kitchen-cabinets", "appliances"},
	"houseplex":    {"framing-lumber", "concrete", "windows", "doors", "drywall", "hvac", "plumbing-fixtures", "electrical", "fire-protection", "appliances", "kitchen-cabinets"},
	"laneway":      {"framing-lumber", "concrete", "windows", "doors", "insulation", "hvac", "plumbing-fixtures", "electrical"},
	"condo":        {"concrete", "curtain-wall", "elevators", "hvac", "plumbing-fixtures", "electrical", "fire-protection", "kitchen-cabinets", "appliances"},
	"office":       {"drywall", "ceilings", "flooring", "hvac", "electrical", "lighting", "doors"},
	"retail":       {"storefronts", "lighting", "flooring", "hvac", "signage", "electrical"},
	"restaurant":   {"commercial-kitchen", "ventilation", "plumbing-fixtures", "flooring", "fire-protection", "signage"},
	"hvac":         {"hvac", "ventilation", "ductwork"},
	"plumbing":     {"plumbing-fixtures", "water-heaters", "piping"},
	"electrical":   {"electrical", "lighting"},
	"fire-alarm":   {"fire-protection", "electrical"},
	"sprinkler":    {"fire-protection", "piping"},
	"demolition":   {"waste-removal", "excavation"},
	"solar":        {"solar", "electrical", "roofing"},
}

// NormalizeTag turns a raw scope tag into its matrix key. It lower-cases and
// trims the tag, strips one structured prefix and collapses numeric unit
// variants, so "NEW:Houseplex-4-Units" becomes "houseplex".
func NormalizeTag(tag string) string {
	key := strings.ToLower(strings.TrimSpace(tag))
	if loc := prefixRe.FindStringIndex(key); loc != nil {
		key = strings.TrimSpace(key[loc[1]:])
	}
	if m := unitFamilyRe.FindStringSubmatch(key); m != nil {
		key = m[1]
	}
	return key
}

// LookupProducts returns the sorted union of product groups for tags.
// Unknown tags contribute nothing.
func LookupProducts(tags []string) []string {
	set := make(map[string]struct{})
	for _, tag := range tags {
		for _, product := range matrix[NormalizeTag(tag)] {
			set[product] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for product := range set {
		out = append(out, product)
	}
	sort.Strings(out)
	return out
}

// Known reports whether tag has an entry in the matrix.
func Known(tag string) bool {
	_, ok := matrix[NormalizeTag(tag)]
	return ok
}

// Tags returns every matrix key in sorted order.
func Tags() []string {
	out := make([]string, 0, len(matrix))
	for tag := range matrix {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
