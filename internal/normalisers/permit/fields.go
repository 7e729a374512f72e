package permit

import "github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"

// Upstream field names as published in the bulk export.
const (
	KeyPermitNum            = "PERMIT_NUM"
	KeyRevisionNum          = "REVISION_NUM"
	KeyPermitType           = "PERMIT_TYPE"
	KeyStructureType        = "STRUCTURE_TYPE"
	KeyWork                 = "WORK"
	KeyStreetNum            = "STREET_NUM"
	KeyStreetName           = "STREET_NAME"
	KeyStreetType           = "STREET_TYPE"
	KeyStreetDirection      = "STREET_DIRECTION"
	KeyPostal               = "POSTAL"
	KeyGeoID                = "GEO_ID"
	KeyWardGrid             = "WARD_GRID"
	KeyApplicationDate      = "APPLICATION_DATE"
	KeyIssuedDate           = "ISSUED_DATE"
	KeyCompletedDate        = "COMPLETED_DATE"
	KeyStatus               = "STATUS"
	KeyDescription          = "DESCRIPTION"
	KeyCurrentUse           = "CURRENT_USE"
	KeyProposedUse          = "PROPOSED_USE"
	KeyBuilderName          = "BUILDER_NAME"
	KeyOwner                = "OWNER"
	KeyEstConstCost         = "EST_CONST_COST"
	KeyDwellingUnitsCreated = "DWELLING_UNITS_CREATED"
	KeyDwellingUnitsLost    = "DWELLING_UNITS_LOST"
	KeyHousingUnits         = "HOUSING_UNITS"
	KeyStoreys              = "STOREYS"
)

// Vocabulary maps every upstream field to its canonical field name.
// Upstream fields outside this table still contribute to the content hash.
var Vocabulary = map[string]string{
	KeyPermitNum:            domain.FieldPermitNum,
	KeyRevisionNum:          domain.FieldRevisionNum,
	KeyPermitType:           domain.FieldPermitType,
	KeyStructureType:        domain.FieldStructureType,
	KeyWork:                 domain.FieldWork,
	KeyStreetNum:            domain.FieldStreetNum,
	KeyStreetName:           domain.FieldStreetName,
	KeyStreetType:           domain.FieldStreetType,
	KeyStreetDirection:      domain.FieldStreetDirection,
	KeyPostal:               domain.FieldPostal,
	KeyGeoID:                domain.FieldGeoID,
	KeyWardGrid:             domain.FieldWardGrid,
	KeyApplicationDate:      domain.FieldApplicationDate,
	KeyIssuedDate:           domain.FieldIssuedDate,
	KeyCompletedDate:        domain.FieldCompletedDate,
	KeyStatus:               domain.FieldStatus,
	KeyDescription:          domain.FieldDescription,
	KeyCurrentUse:           domain.FieldCurrentUse,
	KeyProposedUse:          domain.FieldProposedUse,
	KeyBuilderName:          domain.FieldBuilderName,
	KeyOwner:                domain.FieldOwner,
	KeyEstConstCost:         domain.FieldEstConstCost,
	KeyDwellingUnitsCreated: domain.FieldDwellingUnitsCreated,
	KeyDwellingUnitsLost:    domain.FieldDwellingUnitsLost,
	KeyHousingUnits:         domain.FieldHousingUnits,
	KeyStoreys:              domain.FieldStoreys,
}

// CostSentinel is the placeholder the feed writes into EST_CONST_COST for
// records it refuses to price.
const CostSentinel = "DO NOT UPDATE OR DELETE"

// dateLayouts are tried in order. Layouts without a zone parse as UTC.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}
