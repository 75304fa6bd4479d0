package domain

// ReportRange describes an inclusive UTC calendar-day range.
type ReportRange struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

// RangeStats bundles range totals with the per-day breakdown. Days without a
// stored row are omitted from Daily; Totals always equal the component-wise
// sum of Daily.
type RangeStats struct {
	Totals Counters     `json:"totals"`
	Daily  []DailyStats `json:"daily"`
}

// ListingReport is the per-listing report payload. The last_30_days key is
// kept for any range length; existing dashboard consumers depend on it.
type ListingReport struct {
	Company Listing     `json:"company"`
	Range   ReportRange `json:"range"`
	Stats   RangeStats  `json:"last_30_days"`
}

// SummaryItem pairs a listing with its range totals.
type SummaryItem struct {
	Company Listing  `json:"company"`
	Totals  Counters `json:"totals"`
}

// SummaryReport ranks every listing by profile views over the range.
// Listings without events in range appear with all-zero totals.
type SummaryReport struct {
	Range ReportRange   `json:"range"`
	Items []SummaryItem `json:"items"`
}
