package domain

import "time"

// GridSnapshot is one extraction of the system-overview dashboard.
// Nil pointer fields serialize as explicit JSON nulls: every figure is
// either a valid integer or null, never absent. Snapshots are immutable
// and appended to the store, one per scrape.
type GridSnapshot struct {
	CurrentDemand             *int `json:"current_demand"`
	CurrentDemandMax          *int `json:"current_demand_max"`
	NextHourDemandForecast    *int `json:"next_hour_demand_forecast"`
	NextHourDemandForecastMax *int `json:"next_hour_demand_forecast_max"`
	CurrentReserve            *int `json:"current_reserve"`
	CurrentReserveMax         *int `json:"current_reserve_max"`
	PeakDemandForecast        *int `json:"peak_demand_forecast"`
	PeakReserveForecast       *int `json:"peak_reserve_forecast"`

	// Capture time in the source's timezone (America/Puerto_Rico), ISO-8601.
	Timestamp string `json:"timestamp"`
}

// OutageEntry is one row of the notable-outages table. Identity is
// content-derived (see OutageID), so the same ongoing outage resolves to the
// same ID across scrapes and is updated in place rather than duplicated.
// Entries are never deleted by this pipeline.
type OutageEntry struct {
	ID           string `json:"id"`
	Municipality string `json:"municipality"`
	Sector       string `json:"sector"`

	OutageReportedText      string     `json:"outage_reported_text"`
	OutageReportedTimestamp *time.Time `json:"outage_reported_timestamp"`

	RestorationEstimatedText      string     `json:"restoration_estimated_text"`
	RestorationEstimatedTimestamp *time.Time `json:"restoration_estimated_timestamp"`

	// Kept as published: the source mixes plain counts with ranges like "<5".
	CustomersImpacted string `json:"customers_impacted"`

	Category      string    `json:"category"`
	CurrentStatus string    `json:"current_status"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// RegionStatusRow is one service region's counters from the outage-status
// table. The aggregate "Totals" pseudo-row is excluded at extraction.
type RegionStatusRow struct {
	Region          string `json:"region"`
	TotalCustomers  int    `json:"total_customers"`
	OutOfService    int    `json:"out_of_service"`
	PlannedUpgrades int    `json:"planned_upgrades"`
}

// OutageStatusSnapshot is one extraction of the per-region outage-status
// table plus the page's free-text recency marker.
type OutageStatusSnapshot struct {
	Timestamp  string            `json:"timestamp"`
	LastUpdate string            `json:"last_update"`
	Regions    []RegionStatusRow `json:"data"`
}

// FlattenRow converts the snapshot into the single wide store row: one
// column triple per region, keyed by the slugified region name.
func (s OutageStatusSnapshot) FlattenRow() map[string]any {
	row := map[string]any{
		"timestamp":   s.Timestamp,
		"last_update": s.LastUpdate,
	}
	for _, r := range s.Regions {
		slug := Slugify(r.Region)
		row["total_customers_"+slug] = r.TotalCustomers
		row["out_of_service_"+slug] = r.OutOfService
		row["planned_upgrades_"+slug] = r.PlannedUpgrades
	}
	return row
}
