package models

import "time"

type Goal struct {
	ID            int64      `db:"id" json:"goal_id"`
	UserID        int64      `db:"user" json:"user"`
	Name          string     `db:"goal_name" json:"goal_name"`
	Complete      bool       `db:"complete" json:"complete"`
	DateCreated   time.Time  `db:"date_created" json:"date_created"`
	DateCompleted *time.Time `db:"date_completed" json:"date_completed"`
}

// GoalProgress rolls up the tasks linked to a single goal.
type GoalProgress struct {
	GoalID            int64    `db:"goal_id" json:"goal_id"`
	GoalName          string   `db:"goal_name" json:"goal_name"`
	Complete          bool     `db:"complete" json:"complete"`
	TotalTime         int64    `db:"total_time" json:"total_time"`
	CompleteTasks     int64    `db:"complete_tasks" json:"complete_tasks"`
	IncompleteTasks   int64    `db:"incomplete_tasks" json:"incomplete_tasks"`
	CompletePercent   *float64 `db:"complete_percent" json:"complete_percent"`
	IncompletePercent *float64 `db:"incomplete_percent" json:"incomplete_percent"`
}
