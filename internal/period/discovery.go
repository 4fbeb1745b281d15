// Package period implements Period Discovery (spec.md §4.7) — parsing
// the portal's listing page into the set of available academic
// periods — and the separate period-enumeration helper used for sheet
// preparation (spec.md §6).
package period

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/saludunivalle/cosecha/internal/herrors"
	"github.com/saludunivalle/cosecha/internal/model"
)

// Fetcher is the narrow dependency Discover needs from internal/portal.
type Fetcher interface {
	FetchDecoded(ctx context.Context, url string) (string, error)
}

var (
	optionRe = regexp.MustCompile(`(?is)<option\s+value\s*=\s*"?(\d+)"?[^>]*>(.*?)</option>`)
	labelRe  = regexp.MustCompile(`(\d{4})\s*[-\s]\s*0?([12])\b`)
)

// Discover fetches the listing page and returns up to n periods sorted
// by (year desc, term desc), deduplicated by id keeping the first
// occurrence. Unmatchable options are dropped. On any fault it returns
// an empty list — callers decide fallbacks (spec.md §4.7).
func Discover(ctx context.Context, f Fetcher, listingURL string, n int) []model.Period {
	body, err := f.FetchDecoded(ctx, listingURL)
	if err != nil {
		return nil
	}

	var found []model.Period
	seen := map[int]bool{}

	for _, m := range optionRe.FindAllStringSubmatch(body, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 {
			continue
		}
		lm := labelRe.FindStringSubmatch(m[2])
		if lm == nil {
			continue
		}
		year, err1 := strconv.Atoi(lm[1])
		term, err2 := strconv.Atoi(lm[2])
		if err1 != nil || err2 != nil || (term != 1 && term != 2) {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		found = append(found, model.Period{
			ID:    id,
			Year:  year,
			Term:  term,
			Label: fmt.Sprintf("%d-%d", year, term),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Year != found[j].Year {
			return found[i].Year > found[j].Year
		}
		return found[i].Term > found[j].Term
	})

	if n >= 0 && n < len(found) {
		found = found[:n]
	}
	return found
}

var labelFormatRe = regexp.MustCompile(`^(\d{4})-([12])$`)

// ParseLabel parses a "YYYY-T" label, rejecting anything else with a
// FormatError (spec.md §6).
func ParseLabel(label string) (year, term int, err error) {
	m := labelFormatRe.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, &herrors.FormatError{Field: "period", Value: label, Msg: "expected format YYYY-T"}
	}
	year, _ = strconv.Atoi(m[1])
	term, _ = strconv.Atoi(m[2])
	return year, term, nil
}

// Enumerate builds the preparation period list (spec.md §6): starting
// at currentPeriod and walking backward by term, length n+1. Distinct
// from portal-sourced Discover — no ids are involved, only labels.
func Enumerate(currentPeriod string, n int) ([]string, error) {
	year, term, err := ParseLabel(currentPeriod)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, fmt.Sprintf("%d-%d", year, term))
		if term == 1 {
			term = 2
			year--
		} else {
			term = 1
		}
	}
	return out, nil
}
