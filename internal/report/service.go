package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/domain"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 366
)

// Service reconstructs time-ranged reports from the statistics store.
type Service struct {
	listings domain.ListingRepository
	stats    domain.StatsRepository
	now      func() time.Time
}

func NewService(listings domain.ListingRepository, stats domain.StatsRepository) *Service {
	return &Service{listings: listings, stats: stats, now: time.Now}
}

// ListingReport builds the per-listing report for an inclusive range ending
// today (UTC). days below 1 falls back to the 30-day default. Totals are the
// component-wise sum of whatever daily rows exist; absent days contribute
// zero and are omitted from the daily list.
func (s *Service) ListingReport(ctx context.Context, slugOrID string, days int) (*domain.ListingReport, error) {
	rng := s.resolveRange(days)

	listing, err := s.listings.BySlugOrID(ctx, slugOrID)
	if err != nil {
		return nil, err
	}

	daily, err := s.stats.RangeDaily(ctx, listing.ID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("load daily stats: %w", err)
	}

	var totals domain.Counters
	for _, d := range daily {
		totals.Merge(d.Counters)
	}

	return &domain.ListingReport{
		Company: decorate(*listing),
		Range:   rng,
		Stats:   domain.RangeStats{Totals: totals, Daily: daily},
	}, nil
}

// Summary ranks every listing by profile views over the range. Listings with
// no events in range appear with zero totals.
func (s *Service) Summary(ctx context.Context, days int) (*domain.SummaryReport, error) {
	rng := s.resolveRange(days)

	items, err := s.stats.RangeTotalsAllListings(ctx, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("load range totals: %w", err)
	}

	// The store already returns a stable order; the stable sort keeps it
	// for ties on views.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Totals.Views > items[j].Totals.Views
	})
	for i := range items {
		items[i].Company = decorate(items[i].Company)
	}

	return &domain.SummaryReport{Range: rng, Items: items}, nil
}

// resolveRange turns a requested day count into the inclusive UTC range
// ending today. Malformed counts are corrected, never rejected.
func (s *Service) resolveRange(days int) domain.ReportRange {
	if days < 1 {
		days = defaultRangeDays
	}
	if days > maxRangeDays {
		days = maxRangeDays
	}
	to := s.now().UTC()
	from := to.AddDate(0, 0, -(days - 1))
	return domain.ReportRange{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
		Days: days,
	}
}

// decorate fills a missing display name from the slug, title-cased for the
// listing's locale.
func decorate(l domain.Listing) domain.Listing {
	if l.Name != "" {
		return l
	}
	tag := language.English
	if l.Locale != "" {
		if parsed, err := language.Parse(l.Locale); err == nil {
			tag = parsed
		}
	}
	l.Name = cases.Title(tag).String(strings.ReplaceAll(l.Slug, "-", " "))
	return l
}
