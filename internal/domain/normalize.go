package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// reportedTimeLayout matches the outage table's year-less timestamps,
	// e.g. "April 26 15:10'" (the trailing apostrophe is in the source).
	reportedTimeLayout = "January 2 15:04'"

	// recencyLayout matches the outage-status page's "Last update:" text,
	// e.g. "01/01/2024 01:00 PM".
	recencyLayout = "01/02/2006 03:04 PM"
)

// sourceLocation is the utility's local timezone. Puerto Rico observes
// AST (UTC-4) year-round, so the fixed zone is an exact fallback when the
// tzdata lookup is unavailable.
var sourceLocation = loadSourceLocation()

func loadSourceLocation() *time.Location {
	loc, err := time.LoadLocation("America/Puerto_Rico")
	if err != nil {
		return time.FixedZone("AST", -4*60*60)
	}
	return loc
}

// Now returns the current time in the source timezone.
func Now() time.Time {
	return clock.Now().In(sourceLocation)
}

// CaptureTimestamp returns the current time in the source timezone as an
// ISO-8601 string, used as the capture timestamp on every record.
func CaptureTimestamp() string {
	return Now().Format(time.RFC3339)
}

// ParseNullableInt normalizes a scraped numeric cell: the "MW" unit suffix
// and comma grouping are stripped before parsing. Empty text maps to nil
// (the figure is unpublished); text that remains non-numeric after
// normalization is an error, which callers treat as fatal for the scrape.
func ParseNullableInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "MW")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parse numeric field %q: %w", s, err)
	}
	return &n, nil
}

// ParseCount parses a required comma-grouped integer such as the region
// counter cells ("1,468,223").
func ParseCount(s string) (int, error) {
	n, err := ParseNullableInt(s)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, fmt.Errorf("parse numeric field: empty value")
	}
	return *n, nil
}

// ParseReportedTime parses a year-less outage timestamp, injecting the
// current year. A parse failure yields nil rather than aborting the record;
// the raw text travels with the entry either way.
func ParseReportedTime(s string) *time.Time {
	t, err := time.ParseInLocation(reportedTimeLayout, strings.TrimSpace(s), sourceLocation)
	if err != nil {
		return nil
	}
	t = t.AddDate(clock.Now().In(sourceLocation).Year(), 0, 0)
	return &t
}

// ParseRecencyMarker parses the outage-status page's "Last update:" text.
func ParseRecencyMarker(s string) (time.Time, error) {
	t, err := time.ParseInLocation(recencyLayout, strings.TrimSpace(s), sourceLocation)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse recency marker %q: %w", s, err)
	}
	return t, nil
}

// OutageID derives the stable outage identity from the fields that name a
// real-world event: municipality, sector, and the reported-time text as
// published. Reprocessing the same row always produces the same ID, which
// is what makes store upserts idempotent.
func OutageID(municipality, sector, reportedText string) string {
	input := municipality + "|" + sector + "|" + reportedText
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}

// Slugify lowercases a region name and replaces spaces with underscores,
// producing the per-region column key suffix.
func Slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
