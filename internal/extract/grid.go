// Package extract locates grid-status figures inside fetched documents and
// hands them to the domain normalizer. Selectors follow the source pages;
// a missing element is data (the figure is unpublished), a malformed number
// is a scrape failure.
package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

// gridTargets maps dashboard element ids to output keys.
var gridTargets = map[string]string{
	"total-Generation":   "current_demand",
	"next-Hour-Forecast": "next_hour_demand_forecast",
	"reserve":            "current_reserve",
}

// Field is one dashboard figure: the primary value and its published maximum.
type Field struct {
	Value *int
	Max   *int
}

// Fields pulls each mapped element's data-value attribute and nested
// span.max-text from the document, keyed by output key. Absent elements map
// to a nil Field pair; numeric text that fails to parse is an error.
func Fields(doc *goquery.Document, targets map[string]string) (map[string]Field, error) {
	out := make(map[string]Field, len(targets))
	for id, key := range targets {
		sel := doc.Find("div#" + id).First()
		if sel.Length() == 0 {
			out[key] = Field{}
			continue
		}

		var f Field
		if raw, ok := sel.Attr("data-value"); ok {
			v, err := domain.ParseNullableInt(raw)
			if err != nil {
				return nil, fmt.Errorf("element %q: %w", id, err)
			}
			f.Value = v
		}
		maxSel := sel.Find("span.max-text").First()
		if maxSel.Length() > 0 {
			v, err := domain.ParseNullableInt(maxSel.Text())
			if err != nil {
				return nil, fmt.Errorf("element %q max: %w", id, err)
			}
			f.Max = v
		}
		out[key] = f
	}
	return out, nil
}

// Grid extracts a complete GridSnapshot from the system-overview dashboard,
// stamped with the capture time.
func Grid(doc *goquery.Document) (domain.GridSnapshot, error) {
	fields, err := Fields(doc, gridTargets)
	if err != nil {
		return domain.GridSnapshot{}, err
	}

	snap := domain.GridSnapshot{
		CurrentDemand:             fields["current_demand"].Value,
		CurrentDemandMax:          fields["current_demand"].Max,
		NextHourDemandForecast:    fields["next_hour_demand_forecast"].Value,
		NextHourDemandForecastMax: fields["next_hour_demand_forecast"].Max,
		CurrentReserve:            fields["current_reserve"].Value,
		CurrentReserveMax:         fields["current_reserve"].Max,
		Timestamp:                 domain.CaptureTimestamp(),
	}

	if err := extractPeakForecast(doc, &snap); err != nil {
		return domain.GridSnapshot{}, err
	}
	return snap, nil
}

// extractPeakForecast reads the MW-suffixed peak demand/reserve pair. The
// section publishes them as consecutive p.peak-text elements; with fewer
// than two present both figures stay nil.
func extractPeakForecast(doc *goquery.Document, snap *domain.GridSnapshot) error {
	section := doc.Find("div#peak-Forecast").First()
	if section.Length() == 0 {
		return nil
	}
	values := section.Find("p.peak-text")
	if values.Length() < 2 {
		return nil
	}

	demand, err := domain.ParseNullableInt(values.Eq(0).Text())
	if err != nil {
		return fmt.Errorf("peak demand forecast: %w", err)
	}
	reserve, err := domain.ParseNullableInt(values.Eq(1).Text())
	if err != nil {
		return fmt.Errorf("peak reserve forecast: %w", err)
	}
	snap.PeakDemandForecast = demand
	snap.PeakReserveForecast = reserve
	return nil
}
