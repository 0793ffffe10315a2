package dto

// ComparePeriodsParams are the query parameters of a period comparison.
// Dates are YYYY-MM-DD and every window is half-open. When all four are omitted the
// current calendar month is compared with the previous one. When only the previous
// pair is omitted, the window of equal length before the current one is used.
type ComparePeriodsParams struct {
	CurrentFrom  string `form:"currentFrom"`
	CurrentTo    string `form:"currentTo"`
	PreviousFrom string `form:"previousFrom"`
	PreviousTo   string `form:"previousTo"`
	Top          int    `form:"top,default=5" binding:"min=0,max=50"`
}

// HeatmapParams are the query parameters of a heatmap.
type HeatmapParams struct {
	Year int    `form:"year" binding:"omitempty,min=1900,max=9999"`
	Type string `form:"type,default=all" binding:"oneof=all debit credit"`
}
