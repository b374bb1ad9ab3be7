package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/tessa-labs/tessa/store"
)

func (d *DB) CreateExam(ctx context.Context, create *store.Exam) (*store.Exam, error) {
	stmt := `INSERT INTO exam (uid, subject, date, completed)
		VALUES (` + placeholders(4) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.Subject, create.Date, create.Completed,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	return create, nil
}

func (d *DB) ListExams(ctx context.Context, find *store.FindExam) ([]*store.Exam, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UID; v != nil {
		where, args = append(where, "exam.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Completed; v != nil {
		where, args = append(where, "exam.completed = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, subject, date, completed, created_ts
		FROM exam
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY exam.date ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exams: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Exam, 0)
	for rows.Next() {
		var exam store.Exam
		if err := rows.Scan(
			&exam.ID, &exam.UID, &exam.Subject, &exam.Date, &exam.Completed, &exam.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		list = append(list, &exam)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateExam(ctx context.Context, update *store.UpdateExam) (*store.Exam, error) {
	set, args := []string{}, []any{}

	if v := update.Subject; v != nil {
		set, args = append(set, "subject = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Date; v != nil {
		set, args = append(set, "date = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Completed; v != nil {
		set, args = append(set, "completed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.UID)
	stmt := `UPDATE exam SET ` + strings.Join(set, ", ") + ` WHERE uid = ` + placeholder(len(args)) + `
		RETURNING id, uid, subject, date, completed, created_ts`

	var exam store.Exam
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&exam.ID, &exam.UID, &exam.Subject, &exam.Date, &exam.Completed, &exam.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}

	return &exam, nil
}

func (d *DB) DeleteExam(ctx context.Context, delete *store.DeleteExam) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM exam WHERE uid = ?", delete.UID)
	return err
}
