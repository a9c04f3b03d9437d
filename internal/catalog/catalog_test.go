package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(flights []domain.Flight) []string {
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.FlightNumber)
	}
	return out
}

func TestCatalog_LoadSeed(t *testing.T) {
	c := New(Seed(), 0)
	assert.Empty(t, c.Displayed())

	c.LoadSeed()
	assert.Equal(t, []string{"SW101", "GA205", "EA301", "QF412", "BA789"}, numbers(c.Displayed()))
}

func TestCatalog_Search(t *testing.T) {
	testCases := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "case insensitive substring keeps seed order",
			criteria: Criteria{From: "new york", To: "LONDON", Date: "2023-12-01"},
			want:     []string{"SW101", "GA205", "EA301", "QF412"},
		},
		{
			name:     "partial city names",
			criteria: Criteria{From: "lon", To: "par", Date: "2023-12-02"},
			want:     []string{"BA789"},
		},
		{
			name:     "date must match",
			criteria: Criteria{From: "New York", To: "London", Date: "2023-12-02"},
			want:     []string{},
		},
		{
			name:     "class narrows the result",
			criteria: Criteria{From: "new york", Class: "Business"},
			want:     []string{"EA301"},
		},
		{
			name:     "empty criteria matches everything",
			criteria: Criteria{},
			want:     []string{"SW101", "GA205", "EA301", "QF412", "BA789"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(Seed(), 0)
			c.LoadSeed()

			got, err := c.Search(context.Background(), tc.criteria)
			require.NoError(t, err)
			assert.Equal(t, tc.want, numbers(got))
			assert.Equal(t, tc.want, numbers(c.Displayed()))

			for _, f := range got {
				assert.True(t, strings.Contains(strings.ToLower(f.From), strings.ToLower(tc.criteria.From)))
				assert.True(t, strings.Contains(strings.ToLower(f.To), strings.ToLower(tc.criteria.To)))
				assert.True(t, strings.HasPrefix(f.Departure.Format(departureLayout), tc.criteria.Date))
			}
		})
	}
}

func TestCatalog_SearchReplacesNotMerges(t *testing.T) {
	c := New(Seed(), 0)
	c.LoadSeed()

	_, err := c.Search(context.Background(), Criteria{From: "London"})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), Criteria{To: "London"})
	require.NoError(t, err)

	assert.Equal(t, []string{"SW101", "GA205", "EA301", "QF412"}, numbers(c.Displayed()))
}

func TestCatalog_SearchDeterministic(t *testing.T) {
	c := New(Seed(), 0)
	criteria := Criteria{From: "new", To: "lon", Date: "2023-12"}

	first, err := c.Search(context.Background(), criteria)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), criteria)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCatalog_SearchCancelled(t *testing.T) {
	c := New(Seed(), time.Hour)
	c.LoadSeed()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Search(ctx, Criteria{From: "London"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, c.Displayed(), 5)
}

func TestCatalog_Filter(t *testing.T) {
	c := New(Seed(), 0)
	c.LoadSeed()

	london := c.Filter("london")
	assert.Contains(t, numbers(london), "SW101")
	assert.Contains(t, numbers(london), "BA789")

	ba := c.Filter("BA789")
	require.Len(t, ba, 1)
	assert.Equal(t, domain.FlightDelayed, ba[0].Status)

	assert.Equal(t, []string{"EA301"}, numbers(c.Filter("elite")))
	assert.Len(t, c.Filter(""), 5)
	assert.Empty(t, c.Filter("tokyo"))

	// filtering never narrows the displayed set
	assert.Len(t, c.Displayed(), 5)
}

func TestCatalog_Find(t *testing.T) {
	c := New(Seed(), 0)

	f, ok := c.Find("sw101")
	require.True(t, ok)
	assert.Equal(t, int64(1), f.ID)

	f, ok = c.FindByID(5)
	require.True(t, ok)
	assert.Equal(t, "BA789", f.FlightNumber)

	_, ok = c.Find("ZZ000")
	assert.False(t, ok)
}

func TestCatalog_SearchRemembersPassengers(t *testing.T) {
	c := New(Seed(), 0)
	c.LoadSeed()
	assert.Equal(t, 1, c.Passengers())

	_, err := c.Search(context.Background(), Criteria{From: "new york", Passengers: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Passengers())

	// an unset count keeps the previous one
	_, err = c.Search(context.Background(), Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Passengers())

	c.LoadSeed()
	assert.Equal(t, 1, c.Passengers())
}

func TestSeedBookings(t *testing.T) {
	bookings := SeedBookings("u9")
	require.Len(t, bookings, 1)
	assert.Equal(t, "u9", bookings[0].UserID)
	assert.Equal(t, int64(998), bookings[0].TotalAmount)
	assert.True(t, bookings[0].AlertsEnabled)
}
