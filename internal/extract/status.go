package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

// Selectors for the miluma outage-status table. The page is a utility-class
// grid rather than a <table>, so rows and headers are matched by class.
const (
	StatusContainerSelector = "div.w-full.max-w-full.overflow-x-auto"
	statusHeaderSelector    = "div.grid.grid-cols-8.w-full.text-darkGreen"
	statusRowSelector       = "div.border-t.border-t-darkGray.grid.grid-cols-8"
	statusCellSelector      = "div.p-4"
)

// totalsRowName is the aggregate pseudo-row the source appends; it is never
// a region and never appears in output.
const totalsRowName = "Totals"

// ErrNoStatusTable is returned when the outage-status container is missing.
var ErrNoStatusTable = errors.New("outage status table not found in document")

// recencyRe pulls the free-text recency marker out of the page, trimmed at
// the first AM/PM so trailing page text is dropped.
var recencyRe = regexp.MustCompile(`(?i)Last update:\s*([^\n]*?[AP]M)`)

// Status extracts the per-region outage-status snapshot, stamped with the
// capture time. The Totals pseudo-row is excluded wherever it appears.
func Status(doc *goquery.Document) (domain.OutageStatusSnapshot, error) {
	container := doc.Find(StatusContainerSelector).First()
	if container.Length() == 0 {
		return domain.OutageStatusSnapshot{}, ErrNoStatusTable
	}

	totalIdx, outIdx, plannedIdx, err := statusColumnIndexes(container)
	if err != nil {
		return domain.OutageStatusSnapshot{}, err
	}

	var regions []domain.RegionStatusRow
	var rowErr error
	container.Find(statusRowSelector).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find(statusCellSelector)
		if cells.Length() < 8 {
			return true
		}
		region := strings.TrimSpace(cells.Eq(0).Text())
		if region == totalsRowName {
			return true
		}

		r := domain.RegionStatusRow{Region: region}
		if r.TotalCustomers, rowErr = domain.ParseCount(cells.Eq(totalIdx).Text()); rowErr != nil {
			return false
		}
		if r.OutOfService, rowErr = domain.ParseCount(cells.Eq(outIdx).Text()); rowErr != nil {
			return false
		}
		if r.PlannedUpgrades, rowErr = domain.ParseCount(cells.Eq(plannedIdx).Text()); rowErr != nil {
			return false
		}
		regions = append(regions, r)
		return true
	})
	if rowErr != nil {
		return domain.OutageStatusSnapshot{}, fmt.Errorf("status row: %w", rowErr)
	}

	return domain.OutageStatusSnapshot{
		Timestamp:  domain.CaptureTimestamp(),
		LastUpdate: findRecencyMarker(doc),
		Regions:    regions,
	}, nil
}

// statusColumnIndexes resolves the counter columns by header text so a
// reordered table keeps working.
func statusColumnIndexes(container *goquery.Selection) (total, out, planned int, err error) {
	var headers []string
	container.Find(statusHeaderSelector).First().Find("button").Each(func(_ int, btn *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(btn.Find("div").First().Text()))
	})

	total = indexOf(headers, "Total customers")
	out = indexOf(headers, "Out of Service")
	planned = indexOf(headers, "Planned Upgrades")
	if total < 0 || out < 0 || planned < 0 {
		return 0, 0, 0, fmt.Errorf("status table headers missing, got %v", headers)
	}
	return total, out, planned, nil
}

// findRecencyMarker returns the page's "Last update:" text, or "" when
// absent. Downstream treats unparseable markers as newer, so absence fails
// open rather than aborting the scrape.
func findRecencyMarker(doc *goquery.Document) string {
	m := recencyRe.FindStringSubmatch(doc.Text())
	if len(m) != 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
