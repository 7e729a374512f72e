package domain

import (
	"strconv"
	"time"
)

// Canonical field names. These are the keys of Permit.Fields and the
// field names recorded in the change log.
const (
	FieldPermitNum            = "permit_num"
	FieldRevisionNum          = "revision_num"
	FieldPermitType           = "permit_type"
	FieldStructureType        = "structure_type"
	FieldWork                 = "work"
	FieldStreetNum            = "street_num"
	FieldStreetName           = "street_name"
	FieldStreetType           = "street_type"
	FieldStreetDirection      = "street_direction"
	FieldPostal               = "postal"
	FieldGeoID                = "geo_id"
	FieldWardGrid             = "ward_grid"
	FieldApplicationDate      = "application_date"
	FieldIssuedDate           = "issued_date"
	FieldCompletedDate        = "completed_date"
	FieldStatus               = "status"
	FieldDescription          = "description"
	FieldCurrentUse           = "current_use"
	FieldProposedUse          = "proposed_use"
	FieldBuilderName          = "builder_name"
	FieldBuilderKey           = "builder_key"
	FieldBuilderIncorporated  = "builder_incorporated"
	FieldOwner                = "owner"
	FieldEstConstCost         = "est_const_cost"
	FieldDwellingUnitsCreated = "dwelling_units_created"
	FieldDwellingUnitsLost    = "dwelling_units_lost"
	FieldHousingUnits         = "housing_units"
	FieldStoreys              = "storeys"

	// Bookkeeping fields change on every run and carry no domain signal.
	FieldContentHash = "content_hash"
	FieldFirstSeenAt = "first_seen_at"
	FieldLastSeenAt  = "last_seen_at"
)

// NaturalKey identifies one permit revision across runs.
type NaturalKey struct {
	PermitNum   string
	RevisionNum string
}

// String returns the key as "permit/revision".
func (k NaturalKey) String() string {
	return k.PermitNum + "/" + k.RevisionNum
}

// Permit is the canonical, typed representation of one permit revision.
// Optional text, date and cost fields are nil when the feed had no usable value.
// Count fields default to zero.
type Permit struct {
	PermitNum   string
	RevisionNum string

	PermitType    *string
	StructureType *string
	Work          *string

	StreetNum       *string
	StreetName      *string
	StreetType      *string
	StreetDirection *string
	Postal          *string
	GeoID           *string
	WardGrid        *string

	ApplicationDate *time.Time
	IssuedDate      *time.Time
	CompletedDate   *time.Time

	Status      *string
	Description *string
	CurrentUse  *string
	ProposedUse *string

	// BuilderName is the trimmed upstream name; BuilderKey is its
	// normalised dedup form.
	BuilderName         *string
	BuilderKey          *string
	BuilderIncorporated bool
	Owner               *string

	EstConstCost *float64

	DwellingUnitsCreated int
	DwellingUnitsLost    int
	HousingUnits         int
	Storeys              int

	// Set by the record store.
	ContentHash string
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// Key returns the permit's natural key.
func (p *Permit) Key() NaturalKey {
	return NaturalKey{PermitNum: p.PermitNum, RevisionNum: p.RevisionNum}
}

// Clone returns a deep copy of the permit.
func (p *Permit) Clone() *Permit {
	if p == nil {
		return nil
	}
	c := *p
	c.PermitType = cloneStr(p.PermitType)
	c.StructureType = cloneStr(p.StructureType)
	c.Work = cloneStr(p.Work)
	c.StreetNum = cloneStr(p.StreetNum)
	c.StreetName = cloneStr(p.StreetName)
	c.StreetType = cloneStr(p.StreetType)
	c.StreetDirection = cloneStr(p.StreetDirection)
	c.Postal = cloneStr(p.Postal)
	c.GeoID = cloneStr(p.GeoID)
	c.WardGrid = cloneStr(p.WardGrid)
	c.ApplicationDate = cloneTime(p.ApplicationDate)
	c.IssuedDate = cloneTime(p.IssuedDate)
	c.CompletedDate = cloneTime(p.CompletedDate)
	c.Status = cloneStr(p.Status)
	c.Description = cloneStr(p.Description)
	c.CurrentUse = cloneStr(p.CurrentUse)
	c.ProposedUse = cloneStr(p.ProposedUse)
	c.BuilderName = cloneStr(p.BuilderName)
	c.BuilderKey = cloneStr(p.BuilderKey)
	c.Owner = cloneStr(p.Owner)
	if p.EstConstCost != nil {
		v := *p.EstConstCost
		c.EstConstCost = &v
	}
	return &c
}

// Fields returns every field in stringified form, keyed by canonical name.
// A nil value means absent. Dates use FormatTime.
func (p *Permit) Fields() map[string]*string {
	fields := map[string]*string{
		FieldPermitNum:            strPtr(p.PermitNum),
		FieldRevisionNum:          strPtr(p.RevisionNum),
		FieldPermitType:           p.PermitType,
		FieldStructureType:        p.StructureType,
		FieldWork:                 p.Work,
		FieldStreetNum:            p.StreetNum,
		FieldStreetName:           p.StreetName,
		FieldStreetType:           p.StreetType,
		FieldStreetDirection:      p.StreetDirection,
		FieldPostal:               p.Postal,
		FieldGeoID:                p.GeoID,
		FieldWardGrid:             p.WardGrid,
		FieldApplicationDate:      timePtr(p.ApplicationDate),
		FieldIssuedDate:           timePtr(p.IssuedDate),
		FieldCompletedDate:        timePtr(p.CompletedDate),
		FieldStatus:               p.Status,
		FieldDescription:          p.Description,
		FieldCurrentUse:           p.CurrentUse,
		FieldProposedUse:          p.ProposedUse,
		FieldBuilderName:          p.BuilderName,
		FieldBuilderKey:           p.BuilderKey,
		FieldBuilderIncorporated:  strPtr(strconv.FormatBool(p.BuilderIncorporated)),
		FieldOwner:                p.Owner,
		FieldEstConstCost:         floatPtr(p.EstConstCost),
		FieldDwellingUnitsCreated: strPtr(strconv.Itoa(p.DwellingUnitsCreated)),
		FieldDwellingUnitsLost:    strPtr(strconv.Itoa(p.DwellingUnitsLost)),
		FieldHousingUnits:         strPtr(strconv.Itoa(p.HousingUnits)),
		FieldStoreys:              strPtr(strconv.Itoa(p.Storeys)),
	}

	if p.ContentHash != "" {
		fields[FieldContentHash] = strPtr(p.ContentHash)
	}
	if !p.FirstSeenAt.IsZero() {
		fields[FieldFirstSeenAt] = timePtr(&p.FirstSeenAt)
	}
	if !p.LastSeenAt.IsZero() {
		fields[FieldLastSeenAt] = timePtr(&p.LastSeenAt)
	}
	return fields
}

// IsBookkeepingField reports whether name is excluded from change detection.
func IsBookkeepingField(name string) bool {
	switch name {
	case FieldContentHash, FieldFirstSeenAt, FieldLastSeenAt:
		return true
	default:
		return false
	}
}

// FormatTime renders t as its canonical absolute-time string.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

func floatPtr(f *float64) *string {
	if f == nil {
		return nil
	}
	s := strconv.FormatFloat(*f, 'f', -1, 64)
	return &s
}
