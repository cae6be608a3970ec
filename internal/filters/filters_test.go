package filters

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateChoicesDistinctSortedWithCatchAll(t *testing.T) {
	choices := StateChoices([]string{"b", "a", "", "b"})
	require.Len(t, choices, 3)
	assert.Equal(t, Choice{Value: "", Label: "All states"}, choices[0])
	assert.Equal(t, Choice{Value: "a", Label: "a"}, choices[1])
	assert.Equal(t, Choice{Value: "b", Label: "b"}, choices[2])
}

func TestParseTransectFilterIgnoresInvalidValues(t *testing.T) {
	states := StateChoices([]string{"complete", "pending audit"})
	params := url.Values{
		"start_date": {"2026-03-01"},
		"end_date":   {"not-a-date"},
		"state":      {"bogus"},
	}

	filter := ParseTransectFilter(params, states)
	require.NotNil(t, filter.StartDate)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	assert.Nil(t, filter.EndDate)
	assert.Empty(t, filter.State)

	filter = ParseTransectFilter(url.Values{"state": {"complete"}}, states)
	assert.Equal(t, "complete", filter.State)
}

func TestParseOccurrenceFilterNumbers(t *testing.T) {
	params := url.Values{
		"transect":          {"12"},
		"occurrence_number": {"x"},
	}
	filter := ParseOccurrenceFilter(params, nil)
	require.NotNil(t, filter.TransectUID)
	assert.Equal(t, uint(12), *filter.TransectUID)
	assert.Nil(t, filter.OccurrenceNumber)
}

func TestParseDataTypeFilterBool(t *testing.T) {
	filter := ParseDataTypeFilter(url.Values{"is_user_data_type": {"true"}})
	require.NotNil(t, filter.IsUserDataType)
	assert.True(t, *filter.IsUserDataType)

	filter = ParseDataTypeFilter(url.Values{"is_user_data_type": {"maybe"}})
	assert.Nil(t, filter.IsUserDataType)
}

func TestForEntityPanicsWhenUnregistered(t *testing.T) {
	assert.Panics(t, func() { ForEntity("nope") })

	set := ForEntity("transects")
	assert.Equal(t, "transects", set.Entity)
	assert.NotEmpty(t, set.Fields)
}
