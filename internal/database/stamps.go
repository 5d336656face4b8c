package database

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rwreynolds/stampcollect/internal/models"
)

// StampStore owns the stamps table: CRUD, criteria search and aggregate
// statistics. It performs no validation beyond the NULL coercions applied
// when rows are read back.
type StampStore struct {
	db *gorm.DB
}

func NewStampStore(db *gorm.DB) *StampStore {
	return &StampStore{db: db}
}

// LoadAll returns every stamp in storage order. Ids are not included; use
// Search with empty criteria when they are needed.
func (s *StampStore) LoadAll() (*models.StampCollection, error) {
	var rows []stampRow
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, storageErr("load all", err)
	}

	collection := models.NewStampCollection()
	for _, row := range rows {
		collection.Add(row.toStamp())
	}
	return collection, nil
}

// Get returns the stamp with the given id
func (s *StampStore) Get(id int64) (models.Stamp, error) {
	var row stampRow
	err := s.db.Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Stamp{}, ErrStampNotFound
	}
	if err != nil {
		return models.Stamp{}, storageErr("get", err)
	}
	return row.toStamp(), nil
}

// Insert stores a new stamp and returns its assigned id
func (s *StampStore) Insert(stamp models.Stamp) (int64, error) {
	row := toRow(stamp)
	if err := s.db.Create(&row).Error; err != nil {
		return 0, storageErr("insert", err)
	}
	if row.ID == 0 {
		return 0, storageErr("insert", ErrNoInsertID)
	}
	return row.ID, nil
}

// Update replaces every column of the row with the given id. A missing id
// affects zero rows and is not an error.
func (s *StampStore) Update(id int64, stamp models.Stamp) error {
	row := toRow(stamp)
	err := s.db.Model(&stampRow{}).
		Where("id = ?", id).
		Select("*").
		Omit("id").
		Updates(&row).Error
	return storageErr("update", err)
}

// Delete removes the row with the given id. A missing id is not an error.
func (s *StampStore) Delete(id int64) error {
	err := s.db.Where("id = ?", id).Delete(&stampRow{}).Error
	return storageErr("delete", err)
}

// Search returns the stamps matching every criterion that is set, paired with
// their ids, in storage order. Text criteria are substring matches (LIKE is
// case-insensitive for ASCII in SQLite); year bounds are inclusive. With no
// criteria every row is returned.
func (s *StampStore) Search(criteria models.SearchCriteria) ([]models.StampRecord, error) {
	query := s.db.Model(&stampRow{})

	if criteria.Description != "" {
		query = query.Where("description LIKE ?", "%"+criteria.Description+"%")
	}
	if criteria.ScottNumber != "" {
		query = query.Where("scott_number LIKE ?", "%"+criteria.ScottNumber+"%")
	}
	if criteria.Country != "" {
		query = query.Where("country LIKE ?", "%"+criteria.Country+"%")
	}
	if criteria.YearFrom != nil {
		query = query.Where("year >= ?", *criteria.YearFrom)
	}
	if criteria.YearTo != nil {
		query = query.Where("year <= ?", *criteria.YearTo)
	}
	// The flags only narrow: false means no constraint, not "= 0"
	if criteria.UsedOnly {
		query = query.Where("used = 1")
	}
	if criteria.WantList {
		query = query.Where("want_list = 1")
	}

	var rows []stampRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, storageErr("search", err)
	}

	results := make([]models.StampRecord, 0, len(rows))
	for _, row := range rows {
		results = append(results, models.StampRecord{ID: row.ID, Stamp: row.toStamp()})
	}
	return results, nil
}

// DataVersion returns SQLite's data_version for the store's connection. It
// changes whenever another connection, in this process or another, commits
// to the file; commits made through this connection leave it unchanged. The
// pool holds a single connection, so successive calls are comparable.
func (s *StampStore) DataVersion() (int64, error) {
	var version int64
	if err := s.db.Raw("PRAGMA data_version").Scan(&version).Error; err != nil {
		return 0, storageErr("data version", err)
	}
	return version, nil
}

// statsQuery aggregates the counts in one pass. The catalog value is not
// summed here: SQLite would round REAL amounts in binary floating point,
// which can disagree by a cent with the decimal rounding the row mapping
// applies to legacy values such as 1.005.
const statsQuery = `
SELECT
	COUNT(*) AS total_stamps,
	COALESCE(SUM(CASE WHEN used = 1 THEN 1 ELSE 0 END), 0) AS used_stamps,
	COUNT(DISTINCT country) AS countries,
	COALESCE(SUM(CASE WHEN want_list = 1 THEN 1 ELSE 0 END), 0) AS want_list_items,
	COALESCE(SUM(CASE WHEN for_sale = 1 THEN 1 ELSE 0 END), 0) AS for_sale_items
FROM stamps`

// valueColumns are the columns Stamp.TotalValue reads
var valueColumns = []string{"used", "qty_mint", "qty_used", "catalog_value_mint", "catalog_value_used"}

type statsRow struct {
	TotalStamps   int64 `gorm:"column:total_stamps"`
	UsedStamps    int64 `gorm:"column:used_stamps"`
	Countries     int64 `gorm:"column:countries"`
	WantListItems int64 `gorm:"column:want_list_items"`
	ForSaleItems  int64 `gorm:"column:for_sale_items"`
}

// Statistics summarises the collection. The catalog value is the sum of
// TotalValue over the same row mapping LoadAll uses, so the two always agree.
// Both reads share one transaction and therefore one snapshot. AverageValue
// is total / count, unrounded, and zero for an empty table.
func (s *StampStore) Statistics() (models.CollectionStats, error) {
	var agg statsRow
	var rows []stampRow
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(statsQuery).Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(&stampRow{}).Select(valueColumns).Find(&rows).Error
	})
	if err != nil {
		return models.CollectionStats{}, storageErr("statistics", err)
	}

	total := decimal.New(0, -2)
	for _, row := range rows {
		total = total.Add(row.toStamp().TotalValue())
	}

	average := decimal.New(0, -2)
	if agg.TotalStamps > 0 {
		average = total.Div(decimal.NewFromInt(agg.TotalStamps))
	}

	return models.CollectionStats{
		TotalStamps:       agg.TotalStamps,
		UsedStamps:        agg.UsedStamps,
		MintStamps:        agg.TotalStamps - agg.UsedStamps,
		Countries:         agg.Countries,
		TotalCatalogValue: total,
		AverageValue:      average,
		WantListItems:     agg.WantListItems,
		ForSaleItems:      agg.ForSaleItems,
	}, nil
}
