// Package tax derives purchase-tax and VAT obligations from the static
// reference tables. Pure lookups, no numeric tax math.
package tax

import (
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/reference"
)

// PurchaseTax resolves the purchase-tax obligation for a chapter/heading.
// Lookup order: exact 4-digit heading in the excise table (always applies),
// then the 2-digit chapter table (applies unless the rate is "0%"), then a
// no-tax default.
func PurchaseTax(chapter, heading string) model.PurchaseTax {
	if e, ok := reference.PurchaseTaxByHeading(heading); ok {
		return model.PurchaseTax{
			Applies:  true,
			Rate:     e.Rate,
			Note:     e.Note,
			Category: e.Category,
		}
	}

	if e, ok := reference.PurchaseTaxByChapter(chapter); ok {
		return model.PurchaseTax{
			Applies:  e.Rate != "0%",
			Rate:     e.Rate,
			Note:     e.Note,
			Category: e.Category,
		}
	}

	return model.PurchaseTax{Applies: false, Rate: "0%", Category: "general"}
}
