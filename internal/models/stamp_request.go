package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StampRequest is the input shape for creating or replacing a stamp, shared by
// the HTTP API and the CLI. Currency amounts arrive as strings so that they can
// be parsed exactly; validation tags are checked before ToStamp is called.
type StampRequest struct {
	ScottNumber        string  `json:"scott_number" binding:"required,notblank"`
	Description        string  `json:"description" binding:"required,notblank"`
	Country            *string `json:"country"`
	Year               *int    `json:"year"`
	Denomination       *string `json:"denomination"`
	Color              *string `json:"color"`
	ConditionGrade     string  `json:"condition_grade"`
	GumCondition       string  `json:"gum_condition"`
	Perforation        *string `json:"perforation"`
	Used               bool    `json:"used"`
	PlateBlock         bool    `json:"plate_block"`
	FirstDayCover      bool    `json:"first_day_cover"`
	Location           *string `json:"location"`
	Notes              *string `json:"notes"`
	QtyMint            int     `json:"qty_mint" binding:"gte=0"`
	QtyUsed            int     `json:"qty_used" binding:"gte=0"`
	CatalogValueMint   string  `json:"catalog_value_mint" binding:"omitempty,decimal"`
	CatalogValueUsed   string  `json:"catalog_value_used" binding:"omitempty,decimal"`
	PurchasePrice      string  `json:"purchase_price" binding:"omitempty,decimal"`
	CurrentMarketValue string  `json:"current_market_value" binding:"omitempty,decimal"`
	WantList           bool    `json:"want_list"`
	ForSale            bool    `json:"for_sale"`
	DateAcquired       *string `json:"date_acquired" binding:"omitempty,isodate"`
	Source             *string `json:"source"`
	ImagePath          *string `json:"image_path"`
}

// ToStamp converts a validated request into a Stamp, applying defaults for
// blank grades and amounts.
func (r StampRequest) ToStamp() (Stamp, error) {
	stamp := NewStamp(r.ScottNumber, r.Description)
	stamp.Country = r.Country
	stamp.Year = r.Year
	stamp.Denomination = r.Denomination
	stamp.Color = r.Color
	if r.ConditionGrade != "" {
		stamp.ConditionGrade = ConditionGrade(r.ConditionGrade)
	}
	if r.GumCondition != "" {
		stamp.GumCondition = GumCondition(r.GumCondition)
	}
	stamp.Perforation = r.Perforation
	stamp.Used = r.Used
	stamp.PlateBlock = r.PlateBlock
	stamp.FirstDayCover = r.FirstDayCover
	stamp.Location = r.Location
	stamp.Notes = r.Notes
	stamp.QtyMint = r.QtyMint
	stamp.QtyUsed = r.QtyUsed
	stamp.WantList = r.WantList
	stamp.ForSale = r.ForSale
	stamp.DateAcquired = r.DateAcquired
	stamp.Source = r.Source
	stamp.ImagePath = r.ImagePath

	amounts := []struct {
		name  string
		raw   string
		field *decimal.Decimal
	}{
		{"catalog_value_mint", r.CatalogValueMint, &stamp.CatalogValueMint},
		{"catalog_value_used", r.CatalogValueUsed, &stamp.CatalogValueUsed},
		{"purchase_price", r.PurchasePrice, &stamp.PurchasePrice},
		{"current_market_value", r.CurrentMarketValue, &stamp.CurrentMarketValue},
	}
	for _, a := range amounts {
		if a.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(a.raw))
		if err != nil {
			return Stamp{}, fmt.Errorf("%s: %w", a.name, err)
		}
		*a.field = d.Round(2)
	}

	return stamp, nil
}

// RequestFromStamp is the inverse of ToStamp, used to edit a stored stamp
// field by field before replacing it.
func RequestFromStamp(s Stamp) StampRequest {
	return StampRequest{
		ScottNumber:        s.ScottNumber,
		Description:        s.Description,
		Country:            s.Country,
		Year:               s.Year,
		Denomination:       s.Denomination,
		Color:              s.Color,
		ConditionGrade:     string(s.ConditionGrade),
		GumCondition:       string(s.GumCondition),
		Perforation:        s.Perforation,
		Used:               s.Used,
		PlateBlock:         s.PlateBlock,
		FirstDayCover:      s.FirstDayCover,
		Location:           s.Location,
		Notes:              s.Notes,
		QtyMint:            s.QtyMint,
		QtyUsed:            s.QtyUsed,
		CatalogValueMint:   s.CatalogValueMint.StringFixed(2),
		CatalogValueUsed:   s.CatalogValueUsed.StringFixed(2),
		PurchasePrice:      s.PurchasePrice.StringFixed(2),
		CurrentMarketValue: s.CurrentMarketValue.StringFixed(2),
		WantList:           s.WantList,
		ForSale:            s.ForSale,
		DateAcquired:       s.DateAcquired,
		Source:             s.Source,
		ImagePath:          s.ImagePath,
	}
}
