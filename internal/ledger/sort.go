package ledger

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys accepted by the balances overview.
const (
	SortByName     = "name"
	SortByAccount  = "account"
	SortByGold     = "gold"
	SortByKWD      = "kwd"
	SortByCount    = "count"
	SortByActivity = "activity"
)

// SortSummaries orders the overview in place. Name and account compare
// case-insensitively under Unicode collation; customers with no
// activity sort after everyone else regardless of direction, keeping
// dormant accounts at the bottom.
func SortSummaries(summaries []CustomerBalanceSummary, key string, descending bool) {
	coll := collate.New(language.Und, collate.IgnoreCase)

	less := func(a, b *CustomerBalanceSummary) int {
		switch key {
		case SortByAccount:
			return coll.CompareString(a.AccountNo, b.AccountNo)
		case SortByGold:
			return compareFloat(a.GoldBalance, b.GoldBalance)
		case SortByKWD:
			return compareFloat(a.KWDBalance, b.KWDBalance)
		case SortByCount:
			return compareInt(a.VoucherCount, b.VoucherCount)
		case SortByActivity:
			switch {
			case a.LastActivity == nil && b.LastActivity == nil:
				return 0
			case a.LastActivity == nil, b.LastActivity == nil:
				return 0 // handled by the never-active rule below
			case a.LastActivity.Before(*b.LastActivity):
				return -1
			case a.LastActivity.After(*b.LastActivity):
				return 1
			default:
				return 0
			}
		default:
			return coll.CompareString(a.Name, b.Name)
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := &summaries[i], &summaries[j]
		// No-activity rows always sink to the end.
		if (a.LastActivity == nil) != (b.LastActivity == nil) {
			return b.LastActivity == nil
		}
		cmp := less(a, b)
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

// FilterSummaries keeps rows whose name or account number contains the
// search text, case-insensitively.
func FilterSummaries(summaries []CustomerBalanceSummary, search string) []CustomerBalanceSummary {
	search = strings.TrimSpace(strings.ToLower(search))
	if search == "" {
		return summaries
	}
	filtered := make([]CustomerBalanceSummary, 0, len(summaries))
	for _, s := range summaries {
		if strings.Contains(strings.ToLower(s.Name), search) ||
			strings.Contains(strings.ToLower(s.AccountNo), search) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
