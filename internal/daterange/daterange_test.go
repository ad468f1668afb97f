package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 8, 15, 13, 30, 0, 0, time.UTC)

func d(s string) time.Time {
	t, _ := time.ParseInLocation(layout, s, time.UTC)
	return t
}

func TestResolvePresets(t *testing.T) {
	cases := []struct {
		filter string
		from   string
		days   int
	}{
		{"", "2025-07-16", 31},
		{"30days", "2025-07-16", 31},
		{"today", "2025-08-15", 1},
		{"7days", "2025-08-08", 8},
		{"90days", "2025-05-17", 91},
		{"thisMonth", "2025-08-01", 15},
	}
	for _, c := range cases {
		t.Run(c.filter, func(t *testing.T) {
			r, err := Resolve(c.filter, "", "", now)
			require.NoError(t, err)
			if c.filter == "" {
				assert.Equal(t, Last30, r.Filter)
			}
			assert.Equal(t, d(c.from), r.From)
			assert.Equal(t, d("2025-08-15"), r.To)
			assert.Equal(t, c.days, r.Days())
		})
	}
}

func TestResolveCustom(t *testing.T) {
	r, err := Resolve("custom", "2025-08-01", "2025-08-10", now)
	require.NoError(t, err)
	assert.Equal(t, Custom, r.Filter)
	assert.Equal(t, 10, r.Days())
	assert.Equal(t, "01/08/2025 - 10/08/2025", r.Label())

	_, err = Resolve("custom", "2025-08-10", "2025-08-01", now)
	assert.ErrorIs(t, err, ErrBadRange)
	_, err = Resolve("custom", "ayer", "2025-08-01", now)
	assert.ErrorIs(t, err, ErrBadRange)
	_, err = Resolve("lastYear", "", "", now)
	assert.ErrorIs(t, err, ErrBadRange)
}
