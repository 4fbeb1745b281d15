package period

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludunivalle/cosecha/internal/model"
)

type fakeFetcher struct {
	body string
	err  error
}

func (f fakeFetcher) FetchDecoded(ctx context.Context, url string) (string, error) {
	return f.body, f.err
}

const listingHTML = `
<select name="periodo">
<option value="49">2026-1</option>
<option value="48">2025-2</option>
<option value="47">2025-1</option>
<option value="bad">N/A</option>
</select>
`

func TestDiscoverSortsByYearThenTermDescending(t *testing.T) {
	got := Discover(context.Background(), fakeFetcher{body: listingHTML}, "http://x", 10)
	want := []model.Period{
		{ID: 49, Year: 2026, Term: 1, Label: "2026-1"},
		{ID: 48, Year: 2025, Term: 2, Label: "2025-2"},
		{ID: 47, Year: 2025, Term: 1, Label: "2025-1"},
	}
	assert.Equal(t, want, got)
}

func TestDiscoverLimitsToN(t *testing.T) {
	got := Discover(context.Background(), fakeFetcher{body: listingHTML}, "http://x", 2)
	assert.Len(t, got, 2)
	assert.Equal(t, 49, got[0].ID)
	assert.Equal(t, 48, got[1].ID)
}

func TestDiscoverDedupesByID(t *testing.T) {
	html := `<option value="1">2026-1</option><option value="1">2026-1</option>`
	got := Discover(context.Background(), fakeFetcher{body: html}, "http://x", 10)
	assert.Len(t, got, 1)
}

func TestDiscoverReturnsEmptyOnFetchError(t *testing.T) {
	got := Discover(context.Background(), fakeFetcher{err: assertError{}}, "http://x", 10)
	assert.Nil(t, got)
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestParseLabel(t *testing.T) {
	year, term, err := ParseLabel("2026-1")
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, 1, term)

	_, _, err = ParseLabel("not-a-period")
	assert.Error(t, err)
}

func TestEnumerateWalksBackwardByTerm(t *testing.T) {
	got, err := Enumerate("2026-1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-1", "2025-2", "2025-1", "2024-2"}, got)
}

func TestEnumerateZeroPrevious(t *testing.T) {
	got, err := Enumerate("2025-2", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-2"}, got)
}
