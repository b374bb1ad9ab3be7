package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/tessa-labs/tessa/store"
)

func (d *DB) CreateMemory(ctx context.Context, create *store.Memory) (*store.Memory, error) {
	fields := []string{"uid", "fact", "category", "source"}
	placeholderValues := []any{create.UID, create.Fact, create.Category, create.Source}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO memory (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	return create, nil
}

func (d *DB) ListMemories(ctx context.Context, find *store.FindMemory) ([]*store.Memory, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UID; v != nil {
		where, args = append(where, "memory.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "memory.category = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Newest first; insertion order is the eviction order.
	query := `
		SELECT id, uid, fact, category, source, created_ts
		FROM memory
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY memory.created_ts DESC, memory.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Memory, 0)
	for rows.Next() {
		var memory store.Memory
		if err := rows.Scan(
			&memory.ID,
			&memory.UID,
			&memory.Fact,
			&memory.Category,
			&memory.Source,
			&memory.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		list = append(list, &memory)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteMemory(ctx context.Context, delete *store.DeleteMemory) error {
	if delete.UID == nil {
		_, err := d.db.ExecContext(ctx, "DELETE FROM memory")
		return err
	}
	_, err := d.db.ExecContext(ctx, "DELETE FROM memory WHERE uid = ?", *delete.UID)
	return err
}

func (d *DB) TruncateMemories(ctx context.Context, keep int) error {
	// Keep the most recent rows, evict the rest.
	stmt := `
		DELETE FROM memory WHERE id NOT IN (
			SELECT id FROM memory ORDER BY created_ts DESC, id DESC LIMIT ?
		)`
	_, err := d.db.ExecContext(ctx, stmt, keep)
	return err
}
