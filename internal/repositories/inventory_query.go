package repositories

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// SortKey names one of the supported inventory orderings.
type SortKey string

const (
	SortIDAsc     SortKey = "idAsc"
	SortIDDesc    SortKey = "idDesc"
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
	SortNameAsc   SortKey = "nameAsc"
	SortNameDesc  SortKey = "nameDesc"
	SortQtyAsc    SortKey = "qtyAsc"
	SortQtyDesc   SortKey = "qtyDesc"

	DefaultSort SortKey = SortIDDesc
)

// Every non-id ordering ends on products.id so ties come back in a stable order.
var inventoryOrders = map[SortKey]string{
	SortIDAsc:     "products.id ASC",
	SortIDDesc:    "products.id DESC",
	SortPriceAsc:  "products.price ASC, products.id ASC",
	SortPriceDesc: "products.price DESC, products.id ASC",
	SortNameAsc:   "products.name ASC, products.id ASC",
	SortNameDesc:  "products.name DESC, products.id ASC",
	SortQtyAsc:    "product_inventories.quantity ASC, products.id ASC",
	SortQtyDesc:   "product_inventories.quantity DESC, products.id ASC",
}

// ParseSortKey maps a raw query value onto a SortKey. Unknown or empty values
// fall back to DefaultSort.
func ParseSortKey(raw string) SortKey {
	key := SortKey(raw)
	if _, ok := inventoryOrders[key]; ok {
		return key
	}
	return DefaultSort
}

// OrderBy returns the ORDER BY clause for the key.
func (k SortKey) OrderBy() string {
	if order, ok := inventoryOrders[k]; ok {
		return order
	}
	return inventoryOrders[DefaultSort]
}

// InventorySearch describes one page of the inventory listing.
type InventorySearch struct {
	Page  int
	Limit int
	// Name matches product names containing it (case-insensitive) or, when
	// it is a plain integer, the product id.
	Name string
	Sort SortKey
}

// DefaultInventoryLimit is the page size used when none is given.
const DefaultInventoryLimit = 25

// Offset returns the number of rows to skip. A page below 1 starts at the top.
func (s InventorySearch) Offset() int {
	if s.Page <= 0 {
		return 0
	}
	return s.Page*s.limit() - s.limit()
}

func (s InventorySearch) limit() int {
	if s.Limit <= 0 {
		return DefaultInventoryLimit
	}
	return s.Limit
}

// filter joins products and applies the name/id condition. It is applied to
// both the count and the row query so they always agree.
func (s InventorySearch) filter(db *gorm.DB) *gorm.DB {
	db = db.Joins("JOIN products ON products.id = product_inventories.product_id")
	if s.Name == "" {
		return db
	}
	pattern := "%" + escapeLike(strings.ToLower(s.Name)) + "%"
	if id, err := strconv.Atoi(s.Name); err == nil {
		return db.Where("LOWER(products.name) LIKE ? ESCAPE '\\' OR products.id = ?", pattern, id)
	}
	return db.Where("LOWER(products.name) LIKE ? ESCAPE '\\'", pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
