package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/models"
)

const goalColumns = `id, "user", goal_name, complete, date_created, date_completed`

// CreateGoal inserts the goal unless the user already has one with that name.
func CreateGoal(ctx context.Context, db DBTX, userID int64, name string) (*models.Goal, error) {
	const stmt = `
		WITH check_existing AS (
			SELECT id FROM goals WHERE "user" = $2 AND goal_name = $1
		)
		INSERT INTO goals (goal_name, "user")
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM check_existing)
		RETURNING ` + goalColumns

	goal := &models.Goal{}
	err := sqlx.GetContext(ctx, db, goal, stmt, name, userID)
	if errors.Is(err, sql.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
		return nil, fmt.Errorf("goal %w", ErrConflict)
	}
	if pgErrorCode(err) == pgForeignKeyViolation {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}
	return goal, nil
}

// CompleteGoal marks the goal complete as of now. Completing it again moves
// the completion timestamp.
func CompleteGoal(ctx context.Context, db DBTX, userID, goalID int64) (*models.Goal, error) {
	const stmt = `
		UPDATE goals
		SET complete = true,
			date_completed = now()
		WHERE id = $1 AND "user" = $2
		RETURNING ` + goalColumns

	goal := &models.Goal{}
	err := sqlx.GetContext(ctx, db, goal, stmt, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("completing goal: %w", err)
	}
	return goal, nil
}

// DeleteGoal removes the goal and returns its name. Linked tasks are kept
// and lose their goal.
func DeleteGoal(ctx context.Context, db DBTX, userID, goalID int64) (string, error) {
	const stmt = `DELETE FROM goals WHERE id = $1 AND "user" = $2 RETURNING goal_name`

	var name string
	err := sqlx.GetContext(ctx, db, &name, stmt, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("goal %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("deleting goal: %w", err)
	}
	return name, nil
}

// GoalOwned reports whether goalID exists and belongs to userID.
func GoalOwned(ctx context.Context, db DBTX, userID, goalID int64) (bool, error) {
	const stmt = `SELECT EXISTS(SELECT 1 FROM goals WHERE id = $1 AND "user" = $2)`

	var exists bool
	if err := sqlx.GetContext(ctx, db, &exists, stmt, goalID, userID); err != nil {
		return false, fmt.Errorf("checking goal: %w", err)
	}
	return exists, nil
}

func SearchGoals(ctx context.Context, db DBTX, opts models.SearchOptions) (*models.SearchPage[models.Goal], error) {
	opts.GoalID = nil
	tail, args, err := buildSearch("g", "goal_name", opts)
	if err != nil {
		return nil, err
	}

	stmt := `SELECT g.id, g."user", g.goal_name, g.complete, g.date_created, g.date_completed FROM goals g` + tail

	var goals []models.Goal
	if err := sqlx.SelectContext(ctx, db, &goals, stmt, args...); err != nil {
		return nil, fmt.Errorf("searching goals: %w", err)
	}
	return Paginate(opts.UserID, opts.Page, goals)
}
