package repo

import "github.com/rogerio-castellano/product-catalog/internal/models"

// ProductFilter matches products by exact field values. Empty fields are
// ignored; an empty filter matches everything.
type ProductFilter struct {
	SKU   string
	Name  string
	Brand string
}

func (pf ProductFilter) matches(p models.Product) bool {
	if pf.SKU != "" && p.SKU != pf.SKU {
		return false
	}
	if pf.Name != "" && p.Name != pf.Name {
		return false
	}
	if pf.Brand != "" && p.Brand != pf.Brand {
		return false
	}
	return true
}
