package aggregation

import (
	"bytes"
	"sort"

	"github.com/amirphl/tallybook/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is a live counter joined with its derived stats
type Row struct {
	Counter *models.Counter
	Stats   Stats
}

// Sort orders rows in place.
//
//	manual:       order index ascending, then creation time
//	alphabetical: locale collation of the name, then order index
//	highest:      windowed value descending, newest counter first on ties
//
// Any remaining tie falls back to the counter id so the order never depends
// on how the store returned the rows.
func Sort(rows []Row, method models.SortMethod, locale language.Tag) {
	switch method {
	case models.SortAlphabetical:
		col := collate.New(locale)
		sort.SliceStable(rows, func(i, j int) bool {
			if c := col.CompareString(rows[i].Counter.Name, rows[j].Counter.Name); c != 0 {
				return c < 0
			}
			return manualLess(rows[i].Counter, rows[j].Counter)
		})
	case models.SortHighest:
		sort.SliceStable(rows, func(i, j int) bool {
			if c := rows[i].Stats.WindowedValue.Cmp(rows[j].Stats.WindowedValue); c != 0 {
				return c > 0
			}
			a, b := rows[i].Counter, rows[j].Counter
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return bytes.Compare(a.ID[:], b.ID[:]) < 0
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return manualLess(rows[i].Counter, rows[j].Counter)
		})
	}
}

func manualLess(a, b *models.Counter) bool {
	if a.OrderIndex != b.OrderIndex {
		return a.OrderIndex < b.OrderIndex
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
