package database

import (
	"gorm.io/gorm"
)

// stampsTableDDL is applied on every open. The table is created once and never
// altered afterwards; schema changes have to be handled out of band.
//
// date_acquired is declared TEXT rather than DATE so the sqlite driver hands
// back the stored YYYY-MM-DD string untouched instead of parsing it into a
// timestamp.
const stampsTableDDL = `
CREATE TABLE IF NOT EXISTS stamps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scott_number TEXT NOT NULL,
	description TEXT NOT NULL,
	country TEXT,
	year INTEGER,
	denomination TEXT,
	color TEXT,
	condition_grade TEXT,
	gum_condition TEXT,
	perforation TEXT,
	used BOOLEAN,
	plate_block BOOLEAN,
	first_day_cover BOOLEAN,
	location TEXT,
	notes TEXT,
	qty_mint INTEGER,
	qty_used INTEGER,
	catalog_value_mint DECIMAL(10,2),
	catalog_value_used DECIMAL(10,2),
	purchase_price DECIMAL(10,2),
	current_market_value DECIMAL(10,2),
	want_list BOOLEAN,
	for_sale BOOLEAN,
	date_acquired TEXT,
	source TEXT,
	image_path TEXT
)`

// EnsureSchema creates the stamps table if it does not exist yet
func EnsureSchema(db *gorm.DB) error {
	if err := db.Exec(stampsTableDDL).Error; err != nil {
		return storageErr("ensure schema", err)
	}
	return nil
}
