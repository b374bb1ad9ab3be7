package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/tessa-labs/tessa/store"
)

func (d *DB) CreateDeadline(ctx context.Context, create *store.Deadline) (*store.Deadline, error) {
	if create.Status == "" {
		create.Status = store.DeadlineStatusPending
	}

	stmt := `INSERT INTO deadline (uid, name, deadline, status)
		VALUES (` + placeholders(4) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.Name, create.Deadline, create.Status,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create deadline: %w", err)
	}

	return create, nil
}

func (d *DB) ListDeadlines(ctx context.Context, find *store.FindDeadline) ([]*store.Deadline, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UID; v != nil {
		where, args = append(where, "deadline.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "deadline.status = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, name, deadline, status, created_ts
		FROM deadline
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY deadline.deadline ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deadlines: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Deadline, 0)
	for rows.Next() {
		var deadline store.Deadline
		if err := rows.Scan(
			&deadline.ID, &deadline.UID, &deadline.Name, &deadline.Deadline, &deadline.Status, &deadline.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deadline: %w", err)
		}
		list = append(list, &deadline)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateDeadline(ctx context.Context, update *store.UpdateDeadline) (*store.Deadline, error) {
	set, args := []string{}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Deadline; v != nil {
		set, args = append(set, "deadline = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.UID)
	stmt := `UPDATE deadline SET ` + strings.Join(set, ", ") + ` WHERE uid = ` + placeholder(len(args)) + `
		RETURNING id, uid, name, deadline, status, created_ts`

	var deadline store.Deadline
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&deadline.ID, &deadline.UID, &deadline.Name, &deadline.Deadline, &deadline.Status, &deadline.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to update deadline: %w", err)
	}

	return &deadline, nil
}

func (d *DB) DeleteDeadline(ctx context.Context, delete *store.DeleteDeadline) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM deadline WHERE uid = ?", delete.UID)
	return err
}
