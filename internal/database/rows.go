package database

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/rwreynolds/stampcollect/internal/models"
)

// stampRow is the storage shape of a stamp. Every column is nullable here,
// even where the DDL says NOT NULL, so rows written by other tools still load.
type stampRow struct {
	ID                 int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ScottNumber        sql.NullString      `gorm:"column:scott_number"`
	Description        sql.NullString      `gorm:"column:description"`
	Country            sql.NullString      `gorm:"column:country"`
	Year               sql.NullInt64       `gorm:"column:year"`
	Denomination       sql.NullString      `gorm:"column:denomination"`
	Color              sql.NullString      `gorm:"column:color"`
	ConditionGrade     sql.NullString      `gorm:"column:condition_grade"`
	GumCondition       sql.NullString      `gorm:"column:gum_condition"`
	Perforation        sql.NullString      `gorm:"column:perforation"`
	Used               sql.NullBool        `gorm:"column:used"`
	PlateBlock         sql.NullBool        `gorm:"column:plate_block"`
	FirstDayCover      sql.NullBool        `gorm:"column:first_day_cover"`
	Location           sql.NullString      `gorm:"column:location"`
	Notes              sql.NullString      `gorm:"column:notes"`
	QtyMint            sql.NullInt64       `gorm:"column:qty_mint"`
	QtyUsed            sql.NullInt64       `gorm:"column:qty_used"`
	CatalogValueMint   decimal.NullDecimal `gorm:"column:catalog_value_mint;type:decimal(10,2)"`
	CatalogValueUsed   decimal.NullDecimal `gorm:"column:catalog_value_used;type:decimal(10,2)"`
	PurchasePrice      decimal.NullDecimal `gorm:"column:purchase_price;type:decimal(10,2)"`
	CurrentMarketValue decimal.NullDecimal `gorm:"column:current_market_value;type:decimal(10,2)"`
	WantList           sql.NullBool        `gorm:"column:want_list"`
	ForSale            sql.NullBool        `gorm:"column:for_sale"`
	DateAcquired       sql.NullString      `gorm:"column:date_acquired"`
	Source             sql.NullString      `gorm:"column:source"`
	ImagePath          sql.NullString      `gorm:"column:image_path"`
}

func (stampRow) TableName() string {
	return "stamps"
}

// toRow maps a stamp onto its columns. Optional fields that are nil become
// NULL; empty strings are stored as empty strings.
func toRow(s models.Stamp) stampRow {
	return stampRow{
		ScottNumber:        sql.NullString{String: s.ScottNumber, Valid: true},
		Description:        sql.NullString{String: s.Description, Valid: true},
		Country:            nullString(s.Country),
		Year:               nullInt(s.Year),
		Denomination:       nullString(s.Denomination),
		Color:              nullString(s.Color),
		ConditionGrade:     sql.NullString{String: string(s.ConditionGrade), Valid: true},
		GumCondition:       sql.NullString{String: string(s.GumCondition), Valid: true},
		Perforation:        nullString(s.Perforation),
		Used:               sql.NullBool{Bool: s.Used, Valid: true},
		PlateBlock:         sql.NullBool{Bool: s.PlateBlock, Valid: true},
		FirstDayCover:      sql.NullBool{Bool: s.FirstDayCover, Valid: true},
		Location:           nullString(s.Location),
		Notes:              nullString(s.Notes),
		QtyMint:            sql.NullInt64{Int64: int64(s.QtyMint), Valid: true},
		QtyUsed:            sql.NullInt64{Int64: int64(s.QtyUsed), Valid: true},
		CatalogValueMint:   decimal.NewNullDecimal(s.CatalogValueMint.Round(2)),
		CatalogValueUsed:   decimal.NewNullDecimal(s.CatalogValueUsed.Round(2)),
		PurchasePrice:      decimal.NewNullDecimal(s.PurchasePrice.Round(2)),
		CurrentMarketValue: decimal.NewNullDecimal(s.CurrentMarketValue.Round(2)),
		WantList:           sql.NullBool{Bool: s.WantList, Valid: true},
		ForSale:            sql.NullBool{Bool: s.ForSale, Valid: true},
		DateAcquired:       nullString(s.DateAcquired),
		Source:             nullString(s.Source),
		ImagePath:          nullString(s.ImagePath),
	}
}

// toStamp maps a row back onto a stamp, coercing NULLs:
//   - scott_number, description: ""
//   - condition_grade, gum_condition: "Unknown"
//   - optional text and year: nil
//   - flags: false
//   - quantities: 0
//   - currency: 0.00
func (r stampRow) toStamp() models.Stamp {
	s := models.Stamp{
		ScottNumber:        r.ScottNumber.String,
		Description:        r.Description.String,
		Country:            stringPtr(r.Country),
		Year:               intPtr(r.Year),
		Denomination:       stringPtr(r.Denomination),
		Color:              stringPtr(r.Color),
		ConditionGrade:     models.GradeUnknown,
		GumCondition:       models.GumUnknown,
		Perforation:        stringPtr(r.Perforation),
		Used:               r.Used.Valid && r.Used.Bool,
		PlateBlock:         r.PlateBlock.Valid && r.PlateBlock.Bool,
		FirstDayCover:      r.FirstDayCover.Valid && r.FirstDayCover.Bool,
		Location:           stringPtr(r.Location),
		Notes:              stringPtr(r.Notes),
		QtyMint:            int(r.QtyMint.Int64),
		QtyUsed:            int(r.QtyUsed.Int64),
		CatalogValueMint:   amount(r.CatalogValueMint),
		CatalogValueUsed:   amount(r.CatalogValueUsed),
		PurchasePrice:      amount(r.PurchasePrice),
		CurrentMarketValue: amount(r.CurrentMarketValue),
		WantList:           r.WantList.Valid && r.WantList.Bool,
		ForSale:            r.ForSale.Valid && r.ForSale.Bool,
		DateAcquired:       stringPtr(r.DateAcquired),
		Source:             stringPtr(r.Source),
		ImagePath:          stringPtr(r.ImagePath),
	}
	// Only NULL falls back to Unknown; any stored string round-trips as is.
	if r.ConditionGrade.Valid {
		s.ConditionGrade = models.ConditionGrade(r.ConditionGrade.String)
	}
	if r.GumCondition.Valid {
		s.GumCondition = models.GumCondition(r.GumCondition.String)
	}
	return s
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func amount(nd decimal.NullDecimal) decimal.Decimal {
	if !nd.Valid {
		return decimal.New(0, -2)
	}
	return nd.Decimal.Round(2)
}
