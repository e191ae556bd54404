package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/logging"
	"github.com/joshualeeee/GetItDone/models"
	"github.com/joshualeeee/GetItDone/utils"
)

type taskRequest struct {
	UserID        *int64  `json:"user_id"`
	TaskID        *int64  `json:"task_id"`
	TaskName      *string `json:"task_name"`
	Description   *string `json:"description"`
	GoalID        *int64  `json:"goal_id"`
	TimeTaken     *int    `json:"time_taken"`
	DateCompleted *string `json:"date_completed"`
}

type deletedTask struct {
	UserID   int64  `json:"user_id"`
	TaskID   int64  `json:"task_id"`
	TaskName string `json:"task_name"`
	Status   string `json:"status"`
}

// AddTaskHandler saves a task. A task sent with time_taken and date_completed
// is stored as already complete.
func AddTaskHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	required(reqErr, "user_id", req.UserID != nil)
	required(reqErr, "task_name", req.TaskName != nil)
	dateCompleted := parseDateField(reqErr, "date_completed", req.DateCompleted)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := utils.ValidateName("task_name", *req.TaskName); err != nil {
		writeError(w, r, err)
		return
	}
	if err := utils.ValidateCompletion(req.TimeTaken, dateCompleted); err != nil {
		writeError(w, r, err)
		return
	}

	newTask := models.NewTask{
		UserID:        *req.UserID,
		Name:          *req.TaskName,
		Description:   req.Description,
		GoalID:        req.GoalID,
		TimeTaken:     req.TimeTaken,
		DateCompleted: dateCompleted,
	}

	var task *models.Task
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		task, err = utils.SaveTask(ctx, tx, newTask)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info(ctx, "task saved", "user_id", task.UserID, "task_id", task.ID, "complete", task.Complete)
	writeJSON(w, http.StatusOK, task)
}

// CompleteTaskHandler records the time spent on a task and marks it complete,
// on date_completed or today.
func CompleteTaskHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	required(reqErr, "user_id", req.UserID != nil)
	required(reqErr, "task_id", req.TaskID != nil)
	required(reqErr, "time_taken", req.TimeTaken != nil)
	dateCompleted := parseDateField(reqErr, "date_completed", req.DateCompleted)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := utils.ValidateTimeTaken(*req.TimeTaken); err != nil {
		writeError(w, r, err)
		return
	}

	var task *models.Task
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		task, err = utils.CompleteTask(ctx, tx, *req.UserID, *req.TaskID, *req.TimeTaken, dateCompleted)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

type setGoalRequest struct {
	UserID *int64          `json:"user_id"`
	TaskID *int64          `json:"task_id"`
	GoalID json.RawMessage `json:"goal_id"`
}

// SetTaskGoalHandler links a task to one of the user's goals; a null goal_id
// unlinks it.
func SetTaskGoalHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req setGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	required(reqErr, "user_id", req.UserID != nil)
	required(reqErr, "task_id", req.TaskID != nil)
	required(reqErr, "goal_id", req.GoalID != nil)

	var goalID *int64
	if req.GoalID != nil {
		if err := json.Unmarshal(req.GoalID, &goalID); err != nil {
			reqErr.Add("body.goal_id", "value is not a valid integer")
		}
	}
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var task *models.Task
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		task, err = utils.SetTaskGoal(ctx, tx, *req.UserID, *req.TaskID, goalID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func DeleteTaskHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	required(reqErr, "user_id", req.UserID != nil)
	required(reqErr, "task_id", req.TaskID != nil)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var name string
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		name, err = utils.DeleteTask(ctx, tx, *req.UserID, *req.TaskID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info(ctx, "task deleted", "user_id", *req.UserID, "task_id", *req.TaskID)
	writeJSON(w, http.StatusOK, deletedTask{
		UserID:   *req.UserID,
		TaskID:   *req.TaskID,
		TaskName: name,
		Status:   "successfully deleted",
	})
}

// SearchTasksHandler serves GET /tasks/search/. Results carry the name of the
// linked goal.
func SearchTasksHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	q := newQueryParams(r)
	opts := q.searchOptions("task_name")
	opts.GoalID = q.optionalInt64("goal_id")
	if err := q.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var page *models.SearchPage[models.Task]
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		page, err = utils.SearchTasks(ctx, tx, opts)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func CountTasksHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	q := newQueryParams(r)
	userID := q.requiredInt64("user_id")
	goalID := q.optionalInt64("goal_id")
	if err := q.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var counts *models.Counts
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		counts, err = utils.CountTasks(ctx, tx, userID, goalID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// WeeklyTasksHandler returns completions per day of the current week.
func WeeklyTasksHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	q := newQueryParams(r)
	userID := q.requiredInt64("user_id")
	goalID := q.optionalInt64("goal_id")
	if err := q.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var days []models.WeekdayCount
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		days, err = utils.WeeklyCompletions(ctx, tx, userID, goalID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, days)
}
