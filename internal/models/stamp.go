package models

import (
	"github.com/shopspring/decimal"
)

// ConditionGrade is the centering/appearance grade of a stamp
type ConditionGrade string

const (
	GradeUnknown       ConditionGrade = "Unknown"
	GradePoor          ConditionGrade = "Poor"
	GradeFair          ConditionGrade = "Fair"
	GradeFine          ConditionGrade = "Fine"
	GradeVeryFine      ConditionGrade = "Very Fine"
	GradeExtremelyFine ConditionGrade = "Extremely Fine"
	GradeSuperb        ConditionGrade = "Superb"
)

// GumCondition describes the state of the original gum on the back of a mint stamp
type GumCondition string

const (
	GumUnknown       GumCondition = "Unknown"
	GumMintNH        GumCondition = "Mint NH" // Never hinged
	GumHinged        GumCondition = "Hinged"
	GumHeavilyHinged GumCondition = "Heavily Hinged"
	GumNoGum         GumCondition = "No Gum"
)

// AllConditionGrades returns every grade in display order (worst to best after Unknown)
func AllConditionGrades() []ConditionGrade {
	return []ConditionGrade{
		GradeUnknown,
		GradePoor,
		GradeFair,
		GradeFine,
		GradeVeryFine,
		GradeExtremelyFine,
		GradeSuperb,
	}
}

// AllGumConditions returns every gum condition in display order
func AllGumConditions() []GumCondition {
	return []GumCondition{
		GumUnknown,
		GumMintNH,
		GumHinged,
		GumHeavilyHinged,
		GumNoGum,
	}
}

func (g ConditionGrade) IsKnown() bool {
	for _, known := range AllConditionGrades() {
		if g == known {
			return true
		}
	}
	return false
}

func (g GumCondition) IsKnown() bool {
	for _, known := range AllGumConditions() {
		if g == known {
			return true
		}
	}
	return false
}

// Stamp is one holding: a specific Scott-catalog stamp, its condition and the
// quantity owned. Optional text fields are pointers so that "not set" and
// "set to empty" stay distinguishable through the store.
type Stamp struct {
	ScottNumber        string          `json:"scott_number"`
	Description        string          `json:"description"`
	Country            *string         `json:"country"`
	Year               *int            `json:"year"`
	Denomination       *string         `json:"denomination"`
	Color              *string         `json:"color"`
	ConditionGrade     ConditionGrade  `json:"condition_grade"`
	GumCondition       GumCondition    `json:"gum_condition"`
	Perforation        *string         `json:"perforation"`
	Used               bool            `json:"used"`
	PlateBlock         bool            `json:"plate_block"`
	FirstDayCover      bool            `json:"first_day_cover"`
	Location           *string         `json:"location"`
	Notes              *string         `json:"notes"`
	QtyMint            int             `json:"qty_mint"`
	QtyUsed            int             `json:"qty_used"`
	CatalogValueMint   decimal.Decimal `json:"catalog_value_mint"`
	CatalogValueUsed   decimal.Decimal `json:"catalog_value_used"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	CurrentMarketValue decimal.Decimal `json:"current_market_value"`
	WantList           bool            `json:"want_list"`
	ForSale            bool            `json:"for_sale"`
	DateAcquired       *string         `json:"date_acquired"` // YYYY-MM-DD
	Source             *string         `json:"source"`
	ImagePath          *string         `json:"image_path"`
}

// NewStamp returns a stamp with the required fields set and every other field
// at its default.
func NewStamp(scottNumber, description string) Stamp {
	return Stamp{
		ScottNumber:        scottNumber,
		Description:        description,
		ConditionGrade:     GradeUnknown,
		GumCondition:       GumUnknown,
		CatalogValueMint:   decimal.Zero,
		CatalogValueUsed:   decimal.Zero,
		PurchasePrice:      decimal.Zero,
		CurrentMarketValue: decimal.Zero,
	}
}

// TotalValue is the catalog value of the holding: used value times used
// quantity for used stamps, mint value times mint quantity otherwise.
func (s Stamp) TotalValue() decimal.Decimal {
	if s.Used {
		return s.CatalogValueUsed.Mul(decimal.NewFromInt(int64(s.QtyUsed)))
	}
	return s.CatalogValueMint.Mul(decimal.NewFromInt(int64(s.QtyMint)))
}

// Clone returns a copy that shares no optional field with s
func (s Stamp) Clone() Stamp {
	c := s
	for _, p := range []**string{&c.Country, &c.Denomination, &c.Color, &c.Perforation,
		&c.Location, &c.Notes, &c.DateAcquired, &c.Source, &c.ImagePath} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	if c.Year != nil {
		y := *c.Year
		c.Year = &y
	}
	return c
}

// StampRecord pairs a persisted stamp with its store-assigned id
type StampRecord struct {
	ID    int64 `json:"id"`
	Stamp Stamp `json:"stamp"`
}

// SearchCriteria holds the optional filters for a stamp search. Empty strings
// and nil bounds impose no constraint. UsedOnly and WantList only ever narrow
// the result: false means "don't care", never "must be false".
type SearchCriteria struct {
	Description string `json:"description" form:"description"`
	ScottNumber string `json:"scott_number" form:"scott_number"`
	Country     string `json:"country" form:"country"`
	YearFrom    *int   `json:"year_from" form:"year_from"`
	YearTo      *int   `json:"year_to" form:"year_to"`
	UsedOnly    bool   `json:"used_only" form:"used_only"`
	WantList    bool   `json:"want_list" form:"want_list"`
}

// IsEmpty reports whether no criterion is set
func (c SearchCriteria) IsEmpty() bool {
	return c.Description == "" && c.ScottNumber == "" && c.Country == "" &&
		c.YearFrom == nil && c.YearTo == nil && !c.UsedOnly && !c.WantList
}

// StringPtr is a small helper for building optional fields
func StringPtr(s string) *string {
	return &s
}

// IntPtr is a small helper for building optional fields
func IntPtr(i int) *int {
	return &i
}
