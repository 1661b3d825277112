package domain

import (
	"fmt"
	"time"
)

// Series identifies a document numbering sequence. Each series counts
// independently per calendar period.
type Series string

const (
	SeriesSale           Series = "S"
	SeriesSaleReturn     Series = "SR"
	SeriesPurchase       Series = "P"
	SeriesPurchaseReturn Series = "PR"
	SeriesVoucher        Series = "V"
)

// SeriesFor maps invoice direction flags to the right series.
func SeriesFor(isReturn bool, sale, ret Series) Series {
	if isReturn {
		return ret
	}
	return sale
}

// Period renders the calendar year+month of t as "YYMM", e.g. "2501".
func Period(t time.Time) string {
	return t.Format("0601")
}

// FormatDocNumber renders a document number as <PREFIX><YYMM>-<N>,
// e.g. ("S", "2501", 2) -> "S2501-2".
func FormatDocNumber(series Series, period string, n int64) string {
	return fmt.Sprintf("%s%s-%d", series, period, n)
}
