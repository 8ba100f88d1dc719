package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name      string
		newMarker string
		stored    string
		hasStored bool
		want      bool
	}{
		{"empty store", "01/01/2024 01:00 PM", "", false, true},
		{"new is later", "01/01/2024 02:00 PM", "01/01/2024 01:00 PM", true, true},
		{"new is earlier", "01/01/2024 01:00 PM", "01/01/2024 02:00 PM", true, false},
		{"equal markers", "01/01/2024 01:00 PM", "01/01/2024 01:00 PM", true, false},
		{"stored unparseable fails open", "01/01/2024 01:00 PM", "garbage", true, true},
		{"stored unparseable beats later stored text", "01/01/2020 01:00 AM", "not a timestamp", true, true},
		{"new unparseable fails open", "updated just now", "01/01/2024 01:00 PM", true, true},
		{"crosses am pm boundary", "01/01/2024 11:59 AM", "01/01/2024 12:01 PM", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNewer(tt.newMarker, tt.stored, tt.hasStored))
		})
	}
}
