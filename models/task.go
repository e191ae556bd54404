package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// Task is a row of the tasks table joined with the name of its goal, if any.
// DateCompleted is a calendar date; TimeTaken is in minutes.
type Task struct {
	ID            int64      `db:"id" json:"task_id"`
	UserID        int64      `db:"user" json:"user"`
	GoalID        *int64     `db:"goal" json:"goal_id"`
	GoalName      *string    `db:"goal_name" json:"goal"`
	Name          string     `db:"task_name" json:"task_name"`
	Description   *string    `db:"description" json:"description"`
	Complete      bool       `db:"complete" json:"complete"`
	DateCreated   time.Time  `db:"date_created" json:"date_created"`
	DateCompleted *time.Time `db:"date_completed" json:"date_completed"`
	TimeTaken     *int       `db:"time_taken" json:"time_taken"`
}

// MarshalJSON writes DateCompleted as a plain date so it can be sent back
// unchanged to the completion endpoint.
func (t Task) MarshalJSON() ([]byte, error) {
	type task Task
	return json.Marshal(struct {
		task
		DateCompleted *string `json:"date_completed"`
	}{task(t), formatDate(t.DateCompleted)})
}

// NewTask is the input of a task insert.
type NewTask struct {
	UserID        int64
	Name          string
	Description   *string
	GoalID        *int64
	TimeTaken     *int
	DateCompleted *time.Time
}

// Counts is the complete/incomplete breakdown shared by goals and tasks.
// Percentages are nil when there is nothing to count.
type Counts struct {
	Complete          int64    `db:"complete" json:"complete"`
	Incomplete        int64    `db:"incomplete" json:"incomplete"`
	CompletePercent   *float64 `db:"complete_percent" json:"complete_percent"`
	IncompletePercent *float64 `db:"incomplete_percent" json:"incomplete_percent"`
}

// WeekdayCount is one day of the weekly completion report.
type WeekdayCount struct {
	Weekday   string    `db:"weekday" json:"weekday"`
	Date      time.Time `db:"day" json:"date"`
	Completed int64     `db:"completed" json:"completed"`
}

func (w WeekdayCount) MarshalJSON() ([]byte, error) {
	type weekdayCount WeekdayCount
	return json.Marshal(struct {
		weekdayCount
		Date *string `json:"date"`
	}{weekdayCount(w), formatDate(&w.Date)})
}
