package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tableDocuments = "precheck_documents"

// Document names used in the documents table.
const (
	NameCatalog = "catalog"
	NameWeights = "weights"
)

// PostgresDocument stores a document as one JSONB row keyed by name.
type PostgresDocument struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgres creates a document stored in the row called name.
func NewPostgres(pool *pgxpool.Pool, name string) *PostgresDocument {
	return &PostgresDocument{pool: pool, name: name}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (d *PostgresDocument) Name() string   { return d.name }
func (d *PostgresDocument) Format() Format { return FormatJSON }

func (d *PostgresDocument) Read(ctx context.Context) ([]byte, error) {
	query, args, err := selectQuery(d.name)
	if err != nil {
		return nil, err
	}

	var body []byte
	if err := d.pool.QueryRow(ctx, query, args...).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read document %s: %w", d.name, err)
	}
	return body, nil
}

// Write upserts the whole document in a single statement.
func (d *PostgresDocument) Write(ctx context.Context, body []byte) error {
	query, args, err := upsertQuery(d.name, body)
	if err != nil {
		return err
	}
	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("write document %s: %w", d.name, err)
	}
	return nil
}

func selectQuery(name string) (string, []any, error) {
	query, args, err := builder().
		Select("body").
		From(tableDocuments).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}

func upsertQuery(name string, body []byte) (string, []any, error) {
	query, args, err := builder().
		Insert(tableDocuments).
		Columns("name", "body", "updated_at").
		Values(name, string(body), squirrel.Expr("now()")).
		Suffix("ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert: %w", err)
	}
	return query, args, nil
}

var _ Document = (*PostgresDocument)(nil)
