package models

import (
	"github.com/shopspring/decimal"
)

// StampCollection is an insertion-ordered list of stamps loaded from the store.
// It has no identity of its own and is rebuilt on every load.
type StampCollection struct {
	stamps []Stamp
}

func NewStampCollection() *StampCollection {
	return &StampCollection{stamps: []Stamp{}}
}

// Add appends a stamp; duplicates are allowed
func (c *StampCollection) Add(stamp Stamp) {
	c.stamps = append(c.stamps, stamp)
}

// List returns the stamps in insertion order
func (c *StampCollection) List() []Stamp {
	return c.stamps
}

func (c *StampCollection) Len() int {
	return len(c.stamps)
}

// TotalValue sums TotalValue over every stamp in the collection
func (c *StampCollection) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range c.stamps {
		total = total.Add(s.TotalValue())
	}
	return total
}

type CollectionStats struct {
	TotalStamps       int64           `json:"total_stamps"`
	UsedStamps        int64           `json:"used_stamps"`
	MintStamps        int64           `json:"mint_stamps"`
	Countries         int64           `json:"countries"`
	TotalCatalogValue decimal.Decimal `json:"total_catalog_value"`
	AverageValue      decimal.Decimal `json:"average_value"`
	WantListItems     int64           `json:"want_list_items"`
	ForSaleItems      int64           `json:"for_sale_items"`
}

// StampMutationResponse is returned by the API after an insert or update
type StampMutationResponse struct {
	ID        int64  `json:"id"`
	Stamp     *Stamp `json:"stamp,omitempty"`
	Operation string `json:"operation"` // "created", "updated", "deleted"
}

// StampValueResponse reports the computed value of a single holding
type StampValueResponse struct {
	ID         int64           `json:"id"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ImportResponse reports the records created by a bulk import
type ImportResponse struct {
	Imported int     `json:"imported"`
	IDs      []int64 `json:"ids"`
}
