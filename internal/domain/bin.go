package domain

import "strings"

// TablePrefix is prepended to a bin name to obtain its storage table.
const TablePrefix = "cache_"

// Bin is a logical cache partition, e.g. "page" or "render".
type Bin string

// knownBins are the bins emptied by a full cache rebuild.
// The list is maintained by hand and is not discovered from the live
// system: bins registered later by extensions are not reported until
// they are added here.
var knownBins = []Bin{
	"bootstrap",
	"config",
	"data",
	"default",
	"discovery",
	"dynamic_page_cache",
	"entity",
	"menu",
	"page",
	"render",
	"rest",
	"tags",
}

// KnownBins returns the fixed set of cache bins, in declaration order.
func KnownBins() []Bin {
	bins := make([]Bin, len(knownBins))
	copy(bins, knownBins)
	return bins
}

// TableName returns the physical table backing the bin.
// Existence is not checked.
func (b Bin) TableName() string {
	return TablePrefix + string(b)
}

// String returns the bin name.
func (b Bin) String() string {
	return string(b)
}

// BinFromTable is the inverse of TableName. ok is false when the table
// does not carry the bin prefix.
func BinFromTable(table string) (Bin, bool) {
	if !strings.HasPrefix(table, TablePrefix) {
		return "", false
	}
	return Bin(strings.TrimPrefix(table, TablePrefix)), true
}

// TableNames maps bins to their table names, preserving order.
func TableNames(bins []Bin) []string {
	tables := make([]string, 0, len(bins))
	for _, b := range bins {
		tables = append(tables, b.TableName())
	}
	return tables
}
