package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/models"
)

// CountGoals returns how many of the user's goals are complete and incomplete.
func CountGoals(ctx context.Context, db DBTX, userID int64) (*models.Counts, error) {
	const stmt = `
		SELECT
			COUNT(*) FILTER (WHERE complete) AS complete,
			COUNT(*) FILTER (WHERE NOT complete) AS incomplete,
			ROUND(100.0 * COUNT(*) FILTER (WHERE complete) / NULLIF(COUNT(*), 0), 2)::float8 AS complete_percent,
			ROUND(100.0 * COUNT(*) FILTER (WHERE NOT complete) / NULLIF(COUNT(*), 0), 2)::float8 AS incomplete_percent
		FROM goals
		WHERE "user" = $1`

	counts := &models.Counts{}
	if err := sqlx.GetContext(ctx, db, counts, stmt, userID); err != nil {
		return nil, fmt.Errorf("counting goals: %w", err)
	}
	return counts, nil
}

// CountTasks is CountGoals for tasks, optionally limited to one goal.
func CountTasks(ctx context.Context, db DBTX, userID int64, goalID *int64) (*models.Counts, error) {
	const stmt = `
		SELECT
			COUNT(*) FILTER (WHERE complete) AS complete,
			COUNT(*) FILTER (WHERE NOT complete) AS incomplete,
			ROUND(100.0 * COUNT(*) FILTER (WHERE complete) / NULLIF(COUNT(*), 0), 2)::float8 AS complete_percent,
			ROUND(100.0 * COUNT(*) FILTER (WHERE NOT complete) / NULLIF(COUNT(*), 0), 2)::float8 AS incomplete_percent
		FROM tasks
		WHERE "user" = $1 AND ($2::bigint IS NULL OR goal = $2::bigint)`

	counts := &models.Counts{}
	if err := sqlx.GetContext(ctx, db, counts, stmt, userID, goalID); err != nil {
		return nil, fmt.Errorf("counting tasks: %w", err)
	}
	return counts, nil
}

// GetGoalProgress sums the time spent on a goal's tasks and how many of them
// are done.
func GetGoalProgress(ctx context.Context, db DBTX, userID, goalID int64) (*models.GoalProgress, error) {
	const stmt = `
		SELECT
			g.id AS goal_id,
			g.goal_name,
			g.complete,
			COALESCE(SUM(t.time_taken), 0) AS total_time,
			COUNT(t.id) FILTER (WHERE t.complete) AS complete_tasks,
			COUNT(t.id) FILTER (WHERE NOT t.complete) AS incomplete_tasks,
			ROUND(100.0 * COUNT(t.id) FILTER (WHERE t.complete) / NULLIF(COUNT(t.id), 0), 2)::float8 AS complete_percent,
			ROUND(100.0 * COUNT(t.id) FILTER (WHERE NOT t.complete) / NULLIF(COUNT(t.id), 0), 2)::float8 AS incomplete_percent
		FROM goals g
		LEFT JOIN tasks t ON t.goal = g.id
		WHERE g.id = $1 AND g."user" = $2
		GROUP BY g.id, g.goal_name, g.complete`

	progress := &models.GoalProgress{}
	err := sqlx.GetContext(ctx, db, progress, stmt, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("computing goal progress: %w", err)
	}
	return progress, nil
}

// WeeklyCompletions counts the tasks completed on each day of the current
// calendar week, Monday first. Days without completions report zero.
func WeeklyCompletions(ctx context.Context, db DBTX, userID int64, goalID *int64) ([]models.WeekdayCount, error) {
	const stmt = `
		WITH week AS (
			SELECT d::date AS day
			FROM generate_series(
				date_trunc('week', CURRENT_DATE),
				date_trunc('week', CURRENT_DATE) + interval '6 days',
				interval '1 day'
			) AS d
		), done AS (
			SELECT date_completed
			FROM tasks
			WHERE "user" = $1
				AND complete = true
				AND date_completed >= date_trunc('week', CURRENT_DATE)::date
				AND date_completed < (date_trunc('week', CURRENT_DATE) + interval '7 days')::date
				AND ($2::bigint IS NULL OR goal = $2::bigint)
		)
		SELECT
			trim(to_char(week.day, 'Day')) AS weekday,
			week.day AS day,
			COUNT(done.date_completed) AS completed
		FROM week
		LEFT JOIN done ON trim(to_char(done.date_completed, 'Day')) = trim(to_char(week.day, 'Day'))
		GROUP BY week.day
		ORDER BY week.day`

	days := []models.WeekdayCount{}
	if err := sqlx.SelectContext(ctx, db, &days, stmt, userID, goalID); err != nil {
		return nil, fmt.Errorf("counting weekly completions: %w", err)
	}
	return days, nil
}
