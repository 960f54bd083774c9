package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
	"github.com/nearbyhq/nearby-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ProviderStore = (*ProviderStore)(nil)

// ProviderStore implements driven.ProviderStore using PostgreSQL. Proximity
// queries use the earthdistance extension; distances are in meters.
type ProviderStore struct {
	db *DB
}

// NewProviderStore creates a new ProviderStore
func NewProviderStore(db *DB) *ProviderStore {
	return &ProviderStore{db: db}
}

const providerColumns = `
	id, name, description, category, phone, website, image,
	average_rating, review_count,
	address_street, address_city, address_state, address_zip,
	address_lng, address_lat,
	created_at, updated_at`

// FindWithCount runs a filtered, sorted, skip/limit query plus an unbounded
// count of the same filter
func (s *ProviderStore) FindWithCount(ctx context.Context, q driven.ProviderQuery, sort domain.SortOrder, skip, limit int) ([]*domain.Provider, int, error) {
	where, args := buildWhere(q)

	var total int
	countQuery := "SELECT COUNT(*) FROM providers" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count providers: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM providers%s%s OFFSET $%d LIMIT $%d",
		providerColumns, where, orderByClause(sort, false), len(args)+1, len(args)+2,
	)
	args = append(args, skip, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query providers: %w", err)
	}
	defer rows.Close()

	providers, err := scanProviders(rows)
	if err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}

// FindNear returns providers ordered by distance from origin. Providers
// without a geocoded address never match. maxDistance 0 means no cutoff.
func (s *ProviderStore) FindNear(ctx context.Context, origin domain.GeoPoint, maxDistance float64, q driven.ProviderQuery, sort domain.SortOrder, skip, limit int) ([]*domain.Provider, error) {
	where, args := buildWhere(q)

	distanceExpr := fmt.Sprintf(
		"earth_distance(ll_to_earth(address_lat, address_lng), ll_to_earth($%d, $%d))",
		len(args)+1, len(args)+2,
	)
	args = append(args, origin.Lat, origin.Lng)

	if where == "" {
		where = " WHERE "
	} else {
		where += " AND "
	}
	where += "address_lat IS NOT NULL AND address_lng IS NOT NULL"

	if maxDistance > 0 {
		where += fmt.Sprintf(" AND %s <= $%d", distanceExpr, len(args)+1)
		args = append(args, maxDistance)
	}

	orderBy := " ORDER BY distance ASC"
	if len(sort) > 0 {
		orderBy = orderByClause(sort, true)
	}

	query := fmt.Sprintf(
		"SELECT %s, %s AS distance FROM providers%s%s OFFSET $%d LIMIT $%d",
		providerColumns, distanceExpr, where, orderBy, len(args)+1, len(args)+2,
	)
	args = append(args, skip, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("proximity query: %w", err)
	}
	defer rows.Close()

	var providers []*domain.Provider
	for rows.Next() {
		p, err := scanProvider(rows, true)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// ItemsInPriceRange returns line-items priced within [min, max], either bound
// optional. Items without a price never match.
func (s *ProviderStore) ItemsInPriceRange(ctx context.Context, min, max *float64) ([]*domain.ServiceItem, error) {
	var (
		conds = []string{"price IS NOT NULL"}
		args  []interface{}
	)
	if min != nil {
		args = append(args, *min)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if max != nil {
		args = append(args, *max)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := `
		SELECT id, provider_id, name, description, price, rating, review_count
		FROM service_items
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY provider_id, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items by price: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ItemsByProvider returns all line-items owned by a provider
func (s *ProviderStore) ItemsByProvider(ctx context.Context, providerID string) ([]*domain.ServiceItem, error) {
	query := `
		SELECT id, provider_id, name, description, price, rating, review_count
		FROM service_items
		WHERE provider_id = $1
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("query items by provider: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// buildWhere assembles the provider-level pre-filter
func buildWhere(q driven.ProviderQuery) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if q.IDs != nil {
		args = append(args, pq.Array(q.IDs))
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if q.MinRating > 0 {
		args = append(args, q.MinRating)
		conds = append(conds, fmt.Sprintf("average_rating >= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// sortColumns whitelists the sortable fields; anything else is ignored
// rather than interpolated into SQL.
var sortColumns = map[domain.SortColumn]string{
	domain.SortByCreatedAt:   "created_at",
	domain.SortByRating:      "average_rating",
	domain.SortByReviewCount: "review_count",
	domain.SortByDistance:    "distance",
}

func orderByClause(sort domain.SortOrder, distanceAllowed bool) string {
	var parts []string
	for _, f := range sort {
		col, ok := sortColumns[f.Column]
		if !ok {
			continue
		}
		if f.Column == domain.SortByDistance && !distanceAllowed {
			continue
		}
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProviders(rows *sql.Rows) ([]*domain.Provider, error) {
	var providers []*domain.Provider
	for rows.Next() {
		p, err := scanProvider(rows, false)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func scanProvider(row rowScanner, withDistance bool) (*domain.Provider, error) {
	var (
		p            domain.Provider
		categoryJSON []byte
		website      sql.NullString
		image        sql.NullString
		street       sql.NullString
		city         sql.NullString
		state        sql.NullString
		zip          sql.NullString
		lng          sql.NullFloat64
		lat          sql.NullFloat64
		distance     sql.NullFloat64
	)

	dest := []interface{}{
		&p.ID, &p.Name, &p.Description, &categoryJSON, &p.Phone, &website, &image,
		&p.AverageRating, &p.ReviewCount,
		&street, &city, &state, &zip, &lng, &lat,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if withDistance {
		dest = append(dest, &distance)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan provider: %w", err)
	}

	if len(categoryJSON) > 0 {
		if err := json.Unmarshal(categoryJSON, &p.Category); err != nil {
			return nil, fmt.Errorf("decode category for %s: %w", p.ID, err)
		}
	}
	p.Website = website.String
	p.Image = image.String

	if lng.Valid && lat.Valid {
		p.Address = &domain.Address{
			Street:   street.String,
			City:     city.String,
			State:    state.String,
			Zip:      zip.String,
			Location: domain.GeoPoint{Lng: lng.Float64, Lat: lat.Float64},
		}
	}
	return &p, nil
}

func scanItems(rows *sql.Rows) ([]*domain.ServiceItem, error) {
	var items []*domain.ServiceItem
	for rows.Next() {
		var (
			item  domain.ServiceItem
			price sql.NullFloat64
		)
		if err := rows.Scan(&item.ID, &item.ProviderID, &item.Name, &item.Description, &price, &item.Rating, &item.ReviewCount); err != nil {
			return nil, fmt.Errorf("scan service item: %w", err)
		}
		item.Price = Float64Ptr(price)
		items = append(items, &item)
	}
	return items, rows.Err()
}
