// Package reference holds the static reference tables: purchase-tax rates
// by chapter and heading, chapter-pair distinguishing hints, and source
// collection names. Pure data, loaded once.
package reference

// DefaultVATRate is the flat VAT percentage applied after duty and
// purchase tax. Overridable via configuration.
const DefaultVATRate = 18.0

// Tariff reference collections, most authoritative first, and the decree
// source name. These are the namespaces the KV-backed sources read from.
const (
	CollectionCustomsTariff = "customs_tariff"
	CollectionTradeStats    = "trade_statistics"
	CollectionTariffArchive = "tariff_archive"

	SourceFreeImportOrder = "free_import_order"
	SourceCache           = "cache"
)

// DefaultCollections returns the tariff collection cascade order.
func DefaultCollections() []string {
	return []string{CollectionCustomsTariff, CollectionTradeStats, CollectionTariffArchive}
}

// PurchaseTaxEntry is one row of the purchase-tax tables.
type PurchaseTaxEntry struct {
	Rate     string
	Note     string
	Category string
}

// Excise-heavy headings taxed regardless of the chapter default. Keyed by
// 4-digit heading.
var purchaseTaxHeadings = map[string]PurchaseTaxEntry{
	"2203": {Rate: "fixed per liter", Note: "beer excise, rate per liter of alcohol", Category: "alcohol"},
	"2204": {Rate: "fixed per liter", Note: "wine excise", Category: "alcohol"},
	"2208": {Rate: "fixed per liter alcohol", Note: "spirits excise, rate per liter of pure alcohol", Category: "alcohol"},
	"2402": {Rate: "270%", Note: "cigarettes, minimum per 1000 units", Category: "tobacco"},
	"2403": {Rate: "270%", Note: "smoking tobacco", Category: "tobacco"},
	"2710": {Rate: "fixed per liter", Note: "fuel excise", Category: "fuel"},
	"3303": {Rate: "12%", Note: "perfumes and toilet waters", Category: "cosmetics"},
	"8703": {Rate: "83%", Note: "passenger vehicles, graded by emissions", Category: "vehicles"},
	"8711": {Rate: "72%", Note: "motorcycles", Category: "vehicles"},
}

// Chapter-level purchase-tax defaults. A "0%" rate means the chapter carries
// no purchase tax.
var purchaseTaxChapters = map[string]PurchaseTaxEntry{
	"22": {Rate: "varies", Note: "beverages, spirits and vinegar", Category: "alcohol"},
	"24": {Rate: "270%", Note: "tobacco and substitutes", Category: "tobacco"},
	"27": {Rate: "varies", Note: "mineral fuels and oils", Category: "fuel"},
	"33": {Rate: "0%", Note: "essential oils and cosmetics, heading-dependent", Category: "cosmetics"},
	"87": {Rate: "varies", Note: "vehicles other than railway", Category: "vehicles"},
}

// PurchaseTaxByHeading returns the excise entry for a 4-digit heading.
func PurchaseTaxByHeading(heading string) (PurchaseTaxEntry, bool) {
	e, ok := purchaseTaxHeadings[heading]
	return e, ok
}

// PurchaseTaxByChapter returns the chapter-level entry for a 2-digit chapter.
func PurchaseTaxByChapter(chapter string) (PurchaseTaxEntry, bool) {
	e, ok := purchaseTaxChapters[chapter]
	return e, ok
}
