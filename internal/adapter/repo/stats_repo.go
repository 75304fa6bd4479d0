package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// StatsRepositoryPG implements StatsRepository on PostgreSQL. All writes go
// through one additive upsert so concurrent increments to the same
// (listing, day) key are linearized by the database.
type StatsRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepositoryPG {
	return &StatsRepositoryPG{pool: pool}
}

const upsertDailyQuery = `
INSERT INTO listing_stats_daily (
    listing_id, day, views, search_impressions, map_impressions,
    clicks_phone, clicks_website, clicks_email, clicks_directions, leads
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
) ON CONFLICT (listing_id, day) DO UPDATE SET
    views = listing_stats_daily.views + EXCLUDED.views,
    search_impressions = listing_stats_daily.search_impressions + EXCLUDED.search_impressions,
    map_impressions = listing_stats_daily.map_impressions + EXCLUDED.map_impressions,
    clicks_phone = listing_stats_daily.clicks_phone + EXCLUDED.clicks_phone,
    clicks_website = listing_stats_daily.clicks_website + EXCLUDED.clicks_website,
    clicks_email = listing_stats_daily.clicks_email + EXCLUDED.clicks_email,
    clicks_directions = listing_stats_daily.clicks_directions + EXCLUDED.clicks_directions,
    leads = listing_stats_daily.leads + EXCLUDED.leads,
    updated_at = now();
`

// IncrementDaily inserts the counter row or adds delta to the existing one.
func (r *StatsRepositoryPG) IncrementDaily(ctx context.Context, listingID, day string, delta domain.Counters) error {
	_, err := r.pool.Exec(ctx, upsertDailyQuery,
		listingID,
		day,
		delta.Views,
		delta.SearchImpressions,
		delta.MapImpressions,
		delta.ClicksPhone,
		delta.ClicksWebsite,
		delta.ClicksEmail,
		delta.ClicksDirections,
		delta.Leads,
	)
	if err != nil {
		return fmt.Errorf("upsert daily stats: %w", err)
	}
	return nil
}

const rangeDailyQuery = `
SELECT to_char(day, 'YYYY-MM-DD'), views, search_impressions, map_impressions,
       clicks_phone, clicks_website, clicks_email, clicks_directions, leads
FROM listing_stats_daily
WHERE listing_id = $1 AND day BETWEEN $2 AND $3
ORDER BY day ASC;
`

// RangeDaily returns the stored rows for the inclusive range, ascending.
func (r *StatsRepositoryPG) RangeDaily(ctx context.Context, listingID, from, to string) ([]domain.DailyStats, error) {
	rows, err := r.pool.Query(ctx, rangeDailyQuery, listingID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	var daily []domain.DailyStats
	for rows.Next() {
		var d domain.DailyStats
		if err := rows.Scan(
			&d.Day,
			&d.Views,
			&d.SearchImpressions,
			&d.MapImpressions,
			&d.ClicksPhone,
			&d.ClicksWebsite,
			&d.ClicksEmail,
			&d.ClicksDirections,
			&d.Leads,
		); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		daily = append(daily, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return daily, nil
}

const rangeTotalsQuery = `
SELECT l.id, l.slug, l.name, l.locale, l.category, l.plan,
       COALESCE(SUM(s.views), 0) AS views,
       COALESCE(SUM(s.search_impressions), 0),
       COALESCE(SUM(s.map_impressions), 0),
       COALESCE(SUM(s.clicks_phone), 0),
       COALESCE(SUM(s.clicks_website), 0),
       COALESCE(SUM(s.clicks_email), 0),
       COALESCE(SUM(s.clicks_directions), 0),
       COALESCE(SUM(s.leads), 0)
FROM listings l
LEFT JOIN listing_stats_daily s
    ON s.listing_id = l.id AND s.day BETWEEN $1 AND $2
GROUP BY l.id, l.slug, l.name, l.locale, l.category, l.plan
ORDER BY views DESC, l.name ASC;
`

// RangeTotalsAllListings sums the range per listing. The LEFT JOIN keeps
// listings without any rows in range, with zero totals.
func (r *StatsRepositoryPG) RangeTotalsAllListings(ctx context.Context, from, to string) ([]domain.SummaryItem, error) {
	rows, err := r.pool.Query(ctx, rangeTotalsQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("query range totals: %w", err)
	}
	defer rows.Close()

	var items []domain.SummaryItem
	for rows.Next() {
		var it domain.SummaryItem
		if err := rows.Scan(
			&it.Company.ID,
			&it.Company.Slug,
			&it.Company.Name,
			&it.Company.Locale,
			&it.Company.Category,
			&it.Company.Plan,
			&it.Totals.Views,
			&it.Totals.SearchImpressions,
			&it.Totals.MapImpressions,
			&it.Totals.ClicksPhone,
			&it.Totals.ClicksWebsite,
			&it.Totals.ClicksEmail,
			&it.Totals.ClicksDirections,
			&it.Totals.Leads,
		); err != nil {
			return nil, fmt.Errorf("scan range totals: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate range totals: %w", err)
	}
	return items, nil
}

var _ domain.StatsRepository = (*StatsRepositoryPG)(nil)
