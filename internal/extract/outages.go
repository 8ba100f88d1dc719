package extract

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

// OutageRowSelector matches the rendered DataTables rows on the
// notable-outages page. The rows only exist after page scripts run, so the
// fetcher must have waited for them.
const OutageRowSelector = "div.dataTables_scrollBody table tbody tr"

// ErrNoOutageTable is returned when the outage table is absent from the
// document. Unlike a missing dashboard figure, a table scrape that finds no
// table at all is a failure, not an empty result.
var ErrNoOutageTable = errors.New("outage table not found in document")

// Outages extracts one OutageEntry per table row. Rows with fewer than the
// expected seven cells are skipped. Entry IDs are content-derived so
// re-scrapes of an ongoing outage converge on the same row.
func Outages(doc *goquery.Document) ([]domain.OutageEntry, error) {
	rows := doc.Find(OutageRowSelector)
	if rows.Length() == 0 {
		return nil, ErrNoOutageTable
	}

	scrapedAt := domain.Now()
	entries := make([]domain.OutageEntry, 0, rows.Length())

	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}
		cell := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }

		municipality := cell(0)
		sector := cell(1)
		reported := cell(2)
		restoration := cell(3)

		entries = append(entries, domain.OutageEntry{
			ID:                            domain.OutageID(municipality, sector, reported),
			Municipality:                  municipality,
			Sector:                        sector,
			OutageReportedText:            reported,
			OutageReportedTimestamp:       domain.ParseReportedTime(reported),
			RestorationEstimatedText:      restoration,
			RestorationEstimatedTimestamp: domain.ParseReportedTime(restoration),
			CustomersImpacted:             cell(4),
			Category:                      cell(5),
			CurrentStatus:                 cell(6),
			ScrapedAt:                     scrapedAt,
		})
	})

	return entries, nil
}
