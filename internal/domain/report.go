package domain

import "sort"

// TableStat is one raw catalog row: the footprint of a physical table.
type TableStat struct {
	Table string
	// SizeBytes is data plus index length as reported by the catalog.
	SizeBytes int64
	// Rows is the catalog's row count, an estimate on some engines.
	Rows int64
}

// CacheRecord is one row of the report.
type CacheRecord struct {
	Bin      Bin       `json:"bin"`
	SizeMB   Megabytes `json:"size_mb"`
	RowCount int64     `json:"row_count"`
}

// NewCacheRecord builds a record from a catalog row. Negative figures,
// which some engines report for tables never analyzed, become zero.
func NewCacheRecord(bin Bin, stat TableStat) CacheRecord {
	rows := stat.Rows
	if rows < 0 {
		rows = 0
	}
	return CacheRecord{
		Bin:      bin,
		SizeMB:   MegabytesFromBytes(stat.SizeBytes),
		RowCount: rows,
	}
}

// Report is the sorted, totaled inventory of cache bins.
type Report struct {
	Records       []CacheRecord `json:"records"`
	TotalSizeMB   Megabytes     `json:"total_size_mb"`
	TotalRowCount int64         `json:"total_row_count"`
}

// EmptyReport returns the "no cache data found" outcome.
func EmptyReport() *Report {
	return &Report{Records: []CacheRecord{}}
}

// NewReport sorts a copy of records by size descending, then bin name
// ascending, and accumulates the totals.
func NewReport(records []CacheRecord) *Report {
	if len(records) == 0 {
		return EmptyReport()
	}

	sorted := make([]CacheRecord, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	r := &Report{Records: sorted}
	for _, rec := range sorted {
		r.TotalSizeMB += rec.SizeMB
		r.TotalRowCount += rec.RowCount
	}
	return r
}

// SortRecords orders records by size descending. Equal sizes are
// ordered by bin name so the output is reproducible.
func SortRecords(records []CacheRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SizeMB != records[j].SizeMB {
			return records[i].SizeMB > records[j].SizeMB
		}
		return records[i].Bin < records[j].Bin
	})
}

// IsEmpty reports whether no bin resolved to an existing table.
func (r *Report) IsEmpty() bool {
	return r == nil || len(r.Records) == 0
}

// Bins returns the bins in report order.
func (r *Report) Bins() []Bin {
	if r == nil {
		return nil
	}
	bins := make([]Bin, 0, len(r.Records))
	for _, rec := range r.Records {
		bins = append(bins, rec.Bin)
	}
	return bins
}
