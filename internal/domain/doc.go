// Package domain models LUMA Energy grid-status data scraped from the
// utility's public pages.
//
// # Data Sources
//
// Three pages feed the pipeline:
//
//	system-overview: static dashboard with generation, next-hour forecast,
//	reserve, and peak-forecast figures.
//
//	notable-outages: script-rendered DataTables grid, one row per ongoing
//	outage (municipality, sector, reported time, estimated restoration,
//	customers impacted, category, status).
//
//	outages/status: script-rendered per-region table on the miluma portal
//	(total customers, out of service, planned upgrades) with a free-text
//	"Last update:" recency marker.
//
// # Page Conventions
//
// Numeric dashboard values:
//
//	The primary value lives in a data-value attribute on the element; a
//	nested span.max-text carries the maximum. Peak figures are plain text
//	suffixed with "MW". Region counts use comma grouping ("1,468,223").
//	A missing element means the figure is not published right now. That is
//	data, not failure, and maps to a nil field. Text that is present but
//	not numeric aborts the scrape.
//
// Outage timestamps:
//
//	Reported and estimated-restoration times are published without a year,
//	e.g. "April 26 15:10'". The current year is injected at parse time, so
//	entries scraped across a year boundary shortly after New Year may be
//	dated a year late. Unparseable text yields a nil timestamp; the raw
//	text is always kept alongside.
//
// Recency marker:
//
//	"MM/DD/YYYY HH:MM AM/PM" local time, e.g. "01/01/2024 01:00 PM".
//	Compared against the last stored marker to decide whether a status
//	snapshot is actually new. When either side fails to parse the snapshot
//	is treated as newer (fail open): over-inserting is preferred to
//	silently dropping a real update.
//
// # ID Generation
//
// Outage IDs are deterministic SHA-256 hashes of
// municipality|sector|reported-time-text, so repeated scrapes of the same
// ongoing outage resolve to the same row and upsert in place. The hash is
// over the raw reported-time text: if the source reformats that text
// mid-outage the entry forks into a new ID. Known limitation, left
// uncompensated. See [OutageID].
package domain
