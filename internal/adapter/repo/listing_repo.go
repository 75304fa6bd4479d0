package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// ListingRepositoryPG reads listing metadata from PostgreSQL.
type ListingRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepositoryPG {
	return &ListingRepositoryPG{pool: pool}
}

const listingBySlugOrIDQuery = `
SELECT id, slug, name, COALESCE(locale, ''), COALESCE(category, ''), COALESCE(plan, '')
FROM listings
WHERE slug = $1 OR id = $1
LIMIT 1;
`

// BySlugOrID resolves a listing by its public slug or internal identifier.
func (r *ListingRepositoryPG) BySlugOrID(ctx context.Context, slugOrID string) (*domain.Listing, error) {
	row := r.pool.QueryRow(ctx, listingBySlugOrIDQuery, slugOrID)
	var l domain.Listing
	if err := row.Scan(&l.ID, &l.Slug, &l.Name, &l.Locale, &l.Category, &l.Plan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lookup listing %q: %w", slugOrID, err)
	}
	return &l, nil
}

var _ domain.ListingRepository = (*ListingRepositoryPG)(nil)
