package usecase

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
)

type PageEndReason string

const (
	PageEndNone          PageEndReason = ""
	PageEndEmpty         PageEndReason = "empty_page"
	PageEndAllDuplicates PageEndReason = "all_duplicates"
)

// nearEndRatio below which a page is reported as mostly duplicates. It never stops pagination.
const nearEndRatio = 0.5

type PageVerdict struct {
	New      []mirror.Record
	Continue bool
	Reason   PageEndReason
	NewRatio float64
}

func (v PageVerdict) NearEnd() bool {
	return v.Continue && v.NewRatio < nearEndRatio
}

// DetectPageEnd filters page down to ids not in seen and decides whether to fetch the next page.
// New ids are added to seen. An id repeated within the page counts once.
func DetectPageEnd(page []mirror.Record, seen mapset.Set[string]) PageVerdict {
	if len(page) == 0 {
		return PageVerdict{Reason: PageEndEmpty}
	}

	fresh := make([]mirror.Record, 0, len(page))
	for _, record := range page {
		if record == nil {
			continue
		}
		// Add reports false when the id was already present.
		if seen.Add(record.NaturalID()) {
			fresh = append(fresh, record)
		}
	}

	if len(fresh) == 0 {
		return PageVerdict{Reason: PageEndAllDuplicates}
	}
	return PageVerdict{
		New:      fresh,
		Continue: true,
		NewRatio: float64(len(fresh)) / float64(len(page)),
	}
}
