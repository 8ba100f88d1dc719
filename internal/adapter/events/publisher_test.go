package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	scrapedAt := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	entry := domain.OutageEntry{
		ID:            "a1b2c3",
		Municipality:  "San Juan",
		Sector:        "Santurce",
		CurrentStatus: "Crew assigned",
		ScrapedAt:     scrapedAt,
	}

	msg, err := serializeToMessage(entry)
	require.NoError(t, err)

	assert.Equal(t, []byte("a1b2c3"), msg.Key)
	assert.Contains(t, string(msg.Value), `"municipality":"San Juan"`)
	assert.Contains(t, string(msg.Value), `"current_status":"Crew assigned"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "municipality", msg.Headers[0].Key)
	assert.Equal(t, []byte("San Juan"), msg.Headers[0].Value)
	assert.Equal(t, "scraped_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(scrapedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}
