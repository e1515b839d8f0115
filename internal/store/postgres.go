package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DukeRupert/pagelinks/internal/domain"
	"github.com/lib/pq"
)

// PostgresStore reads items from a PostgreSQL table. The connection is
// opened by the caller, normally with the pgx stdlib driver.
type PostgresStore struct {
	db    *sql.DB
	table string // quoted identifier
}

// NewPostgresStore returns a store over table. The name is quoted, so a
// view or schema-less table name from configuration is safe to use.
func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = "items"
	}
	return &PostgresStore{
		db:    db,
		table: pq.QuoteIdentifier(table),
	}
}

func (s *PostgresStore) CountItems(ctx context.Context) (int64, error) {
	const op = "store.count_items"

	var total int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, domain.Internal(err, op, "failed to count items")
	}
	return total, nil
}

func (s *PostgresStore) ListItems(ctx context.Context, limit, offset int32) ([]domain.Item, error) {
	const op = "store.list_items"

	query := fmt.Sprintf(
		"SELECT id, title, body, created_at FROM %s ORDER BY created_at DESC, id LIMIT $1 OFFSET $2",
		s.table,
	)
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list items")
	}
	defer rows.Close()

	items := make([]domain.Item, 0, limit)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Body, &item.CreatedAt); err != nil {
			return nil, domain.Internal(err, op, "failed to scan item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read items")
	}
	return items, nil
}

func (s *PostgresStore) CreateItem(ctx context.Context, item domain.Item) error {
	const op = "store.create_item"

	query := fmt.Sprintf("INSERT INTO %s (id, title, body, created_at) VALUES ($1, $2, $3, $4)", s.table)
	if _, err := s.db.ExecContext(ctx, query, item.ID, item.Title, item.Body, item.CreatedAt); err != nil {
		return domain.Internal(err, op, "failed to create item")
	}
	return nil
}
