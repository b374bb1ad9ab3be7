package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tessa-labs/tessa/store"
)

const wellnessColumns = `
	date, breakfast, lunch, snacks, dinner,
	water, water_goal, study, calories, sleep_hours,
	asked_breakfast, asked_lunch, asked_snacks, asked_dinner,
	last_water_nudge_ts, last_visit_ts`

func (d *DB) GetWellness(ctx context.Context, date string) (*store.Wellness, error) {
	query := `SELECT ` + wellnessColumns + ` FROM wellness WHERE date = ?`

	var w store.Wellness
	err := d.db.QueryRowContext(ctx, query, date).Scan(
		&w.Date, &w.Breakfast, &w.Lunch, &w.Snacks, &w.Dinner,
		&w.Water, &w.WaterGoal, &w.Study, &w.Calories, &w.SleepHours,
		&w.AskedBreakfast, &w.AskedLunch, &w.AskedSnacks, &w.AskedDinner,
		&w.LastWaterNudgeTs, &w.LastVisitTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wellness for %s: %w", date, err)
	}
	return &w, nil
}

func (d *DB) UpsertWellness(ctx context.Context, upsert *store.Wellness) (*store.Wellness, error) {
	stmt := `
		INSERT INTO wellness (` + wellnessColumns + `)
		VALUES (` + placeholders(16) + `)
		ON CONFLICT(date) DO UPDATE SET
			breakfast = excluded.breakfast,
			lunch = excluded.lunch,
			snacks = excluded.snacks,
			dinner = excluded.dinner,
			water = excluded.water,
			water_goal = excluded.water_goal,
			study = excluded.study,
			calories = excluded.calories,
			sleep_hours = excluded.sleep_hours,
			asked_breakfast = excluded.asked_breakfast,
			asked_lunch = excluded.asked_lunch,
			asked_snacks = excluded.asked_snacks,
			asked_dinner = excluded.asked_dinner,
			last_water_nudge_ts = excluded.last_water_nudge_ts,
			last_visit_ts = excluded.last_visit_ts`

	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.Date, upsert.Breakfast, upsert.Lunch, upsert.Snacks, upsert.Dinner,
		upsert.Water, upsert.WaterGoal, upsert.Study, upsert.Calories, upsert.SleepHours,
		upsert.AskedBreakfast, upsert.AskedLunch, upsert.AskedSnacks, upsert.AskedDinner,
		upsert.LastWaterNudgeTs, upsert.LastVisitTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert wellness for %s: %w", upsert.Date, err)
	}

	return upsert, nil
}
