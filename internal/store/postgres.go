package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores every collection in the single JSONB documents table
// created by database.EnsureSchema. Filters are evaluated with @> containment.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Collection(name string) Collection {
	return &postgresCollection{pool: p.pool, name: name}
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

type postgresCollection struct {
	pool *pgxpool.Pool
	name string
}

func (c *postgresCollection) Name() string {
	return c.name
}

func (c *postgresCollection) FindOne(ctx context.Context, filter Filter, out any) (bool, error) {
	criteria, err := encodeFilter(filter)
	if err != nil {
		return false, err
	}

	var raw []byte
	err = c.pool.QueryRow(ctx,
		`SELECT doc FROM documents
		 WHERE collection = $1 AND doc @> $2::jsonb
		 ORDER BY created_at LIMIT 1`, c.name, criteria).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find one in %s: %w", c.name, err)
	}

	return true, decodeDocument(raw, out)
}

func (c *postgresCollection) Find(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	criteria, err := encodeFilter(filter)
	if err != nil {
		return err
	}

	query := `SELECT doc FROM documents WHERE collection = $1 AND doc @> $2::jsonb`
	args := []any{c.name, criteria}

	if opts.SortField != "" {
		args = append(args, opts.SortField)
		direction := "ASC NULLS FIRST"
		if opts.SortOrder == Descending {
			direction = "DESC NULLS LAST"
		}
		query += fmt.Sprintf(" ORDER BY doc -> $%d::text %s, created_at", len(args), direction)
	} else {
		query += " ORDER BY created_at"
	}

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("find in %s: %w", c.name, err)
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (json.RawMessage, error) {
		var raw []byte
		if scanErr := row.Scan(&raw); scanErr != nil {
			return nil, scanErr
		}
		return json.RawMessage(raw), nil
	})
	if err != nil {
		return fmt.Errorf("scan documents from %s: %w", c.name, err)
	}

	return decodeDocuments(docs, out)
}

func (c *postgresCollection) InsertOne(ctx context.Context, v any) (InsertResult, error) {
	doc, err := toDocument(v)
	if err != nil {
		return InsertResult{}, err
	}
	id := ensureID(doc)

	body, err := json.Marshal(doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("encode document: %w", err)
	}

	_, err = c.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb)`,
		c.name, id, string(body))
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert into %s: %w", c.name, err)
	}

	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *postgresCollection) UpdateOne(ctx context.Context, filter Filter, update Update, upsert bool) (UpdateResult, error) {
	criteriaDoc, err := toDocument(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	set, err := toDocument(update.Set)
	if err != nil {
		return UpdateResult{}, err
	}
	setOnInsert, err := toDocument(update.SetOnInsert)
	if err != nil {
		return UpdateResult{}, err
	}

	criteria, err := json.Marshal(criteriaDoc)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("encode filter: %w", err)
	}
	setBody, err := json.Marshal(set)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("encode update: %w", err)
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("begin update in %s: %w", c.name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Concurrent upserts on the same filter must not both insert.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`,
		c.name, string(criteria)); err != nil {
		return UpdateResult{}, fmt.Errorf("lock filter in %s: %w", c.name, err)
	}

	result := UpdateResult{Acknowledged: true}

	var id string
	err = tx.QueryRow(ctx,
		`SELECT id FROM documents
		 WHERE collection = $1 AND doc @> $2::jsonb
		 ORDER BY created_at LIMIT 1 FOR UPDATE`, c.name, string(criteria)).Scan(&id)
	switch {
	case err == nil:
		tag, execErr := tx.Exec(ctx,
			`UPDATE documents SET doc = doc || $3::jsonb, updated_at = now()
			 WHERE collection = $1 AND id = $2 AND NOT doc @> $3::jsonb`,
			c.name, id, string(setBody))
		if execErr != nil {
			return UpdateResult{}, fmt.Errorf("update in %s: %w", c.name, execErr)
		}
		result.MatchedCount = 1
		result.ModifiedCount = tag.RowsAffected()
	case errors.Is(err, pgx.ErrNoRows):
		if !upsert {
			return result, nil
		}

		doc := map[string]any{}
		mergeInto(doc, criteriaDoc, setOnInsert, set)
		newID := ensureID(doc)
		body, marshalErr := json.Marshal(doc)
		if marshalErr != nil {
			return UpdateResult{}, fmt.Errorf("encode document: %w", marshalErr)
		}

		if _, execErr := tx.Exec(ctx,
			`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb)`,
			c.name, newID, string(body)); execErr != nil {
			return UpdateResult{}, fmt.Errorf("upsert into %s: %w", c.name, execErr)
		}
		result.UpsertedCount = 1
		result.UpsertedID = &newID
	default:
		return UpdateResult{}, fmt.Errorf("find document to update in %s: %w", c.name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return UpdateResult{}, fmt.Errorf("commit update in %s: %w", c.name, err)
	}

	return result, nil
}

func (c *postgresCollection) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	criteria, err := encodeFilter(filter)
	if err != nil {
		return DeleteResult{}, err
	}

	tag, err := c.pool.Exec(ctx,
		`DELETE FROM documents
		 WHERE collection = $1 AND id = (
		     SELECT id FROM documents
		     WHERE collection = $1 AND doc @> $2::jsonb
		     ORDER BY created_at LIMIT 1
		 )`, c.name, criteria)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete from %s: %w", c.name, err)
	}

	return DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}

func encodeFilter(filter Filter) (string, error) {
	if filter == nil {
		return "{}", nil
	}

	data, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("encode filter: %w", err)
	}
	return string(data), nil
}
