package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/models"
)

const taskColumns = `id, "user", goal, task_name, description, complete, date_created, date_completed, time_taken`

// SaveTask inserts t unless the user already has a task with the same name
// completed on the same date. Incomplete tasks never conflict. A task given a
// completion date is stored complete.
func SaveTask(ctx context.Context, db DBTX, t models.NewTask) (*models.Task, error) {
	if t.GoalID != nil {
		owned, err := GoalOwned(ctx, db, t.UserID, *t.GoalID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, fmt.Errorf("goal %w", ErrNotFound)
		}
	}

	const stmt = `
		WITH check_existing AS (
			SELECT id FROM tasks
			WHERE "user" = $3 AND task_name = $1 AND date_completed = $6::date
		)
		INSERT INTO tasks (task_name, description, "user", goal, complete, date_completed, time_taken)
		SELECT $1, $2::text, $3, $4::bigint, $5, $6::date, $7::integer
		WHERE NOT EXISTS (SELECT 1 FROM check_existing)
		RETURNING ` + taskColumns

	complete := t.DateCompleted != nil

	task := &models.Task{}
	err := sqlx.GetContext(ctx, db, task, stmt,
		t.Name, t.Description, t.UserID, t.GoalID, complete, t.DateCompleted, t.TimeTaken)
	if errors.Is(err, sql.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
		return nil, fmt.Errorf("task %w", ErrConflict)
	}
	if pgErrorCode(err) == pgForeignKeyViolation {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("saving task: %w", err)
	}
	return task, nil
}

// CompleteTask records timeTaken and marks the task complete on
// dateCompleted, or today when dateCompleted is nil.
func CompleteTask(ctx context.Context, db DBTX, userID, taskID int64, timeTaken int, dateCompleted *time.Time) (*models.Task, error) {
	const stmt = `
		UPDATE tasks
		SET complete = true,
			time_taken = $3,
			date_completed = COALESCE($4::date, CURRENT_DATE)
		WHERE id = $1 AND "user" = $2
		RETURNING ` + taskColumns

	task := &models.Task{}
	err := sqlx.GetContext(ctx, db, task, stmt, taskID, userID, timeTaken, dateCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("completing task: %w", err)
	}
	return task, nil
}

// SetTaskGoal links the task to goalID, or unlinks it when goalID is nil.
func SetTaskGoal(ctx context.Context, db DBTX, userID, taskID int64, goalID *int64) (*models.Task, error) {
	if goalID != nil {
		owned, err := GoalOwned(ctx, db, userID, *goalID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, fmt.Errorf("goal %w", ErrNotFound)
		}
	}

	const stmt = `
		UPDATE tasks
		SET goal = $3::bigint
		WHERE id = $1 AND "user" = $2
		RETURNING ` + taskColumns

	task := &models.Task{}
	err := sqlx.GetContext(ctx, db, task, stmt, taskID, userID, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("setting task goal: %w", err)
	}
	return task, nil
}

// DeleteTask removes the task and returns its name.
func DeleteTask(ctx context.Context, db DBTX, userID, taskID int64) (string, error) {
	const stmt = `DELETE FROM tasks WHERE id = $1 AND "user" = $2 RETURNING task_name`

	var name string
	err := sqlx.GetContext(ctx, db, &name, stmt, taskID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("task %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("deleting task: %w", err)
	}
	return name, nil
}

// SearchTasks pages through the user's tasks, each joined with its goal name.
func SearchTasks(ctx context.Context, db DBTX, opts models.SearchOptions) (*models.SearchPage[models.Task], error) {
	tail, args, err := buildSearch("t", "task_name", opts)
	if err != nil {
		return nil, err
	}

	stmt := `
		SELECT t.id, t."user", t.goal, g.goal_name, t.task_name, t.description,
			t.complete, t.date_created, t.date_completed, t.time_taken
		FROM tasks t
		LEFT JOIN goals g ON g.id = t.goal` + tail

	var tasks []models.Task
	if err := sqlx.SelectContext(ctx, db, &tasks, stmt, args...); err != nil {
		return nil, fmt.Errorf("searching tasks: %w", err)
	}
	return Paginate(opts.UserID, opts.Page, tasks)
}
