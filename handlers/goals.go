package handlers

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/logging"
	"github.com/joshualeeee/GetItDone/models"
	"github.com/joshualeeee/GetItDone/utils"
)

type goalRequest struct {
	UserID   *int64  `json:"user_id"`
	GoalID   *int64  `json:"goal_id"`
	GoalName *string `json:"goal_name"`
}

type deletedGoal struct {
	UserID   int64  `json:"user_id"`
	GoalID   int64  `json:"goal_id"`
	GoalName string `json:"goal_name"`
	Status   string `json:"status"`
}

func AddGoalHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	required(reqErr, "user_id", req.UserID != nil)
	required(reqErr, "goal_name", req.GoalName != nil)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := utils.ValidateName("goal_name", *req.GoalName); err != nil {
		writeError(w, r, err)
		return
	}

	var goal *models.Goal
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		goal, err = utils.CreateGoal(ctx, tx, *req.UserID, *req.GoalName)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info(ctx, "goal created", "user_id", goal.UserID, "goal_id", goal.ID)
	writeJSON(w, http.StatusOK, goal)
}

// CompleteGoalHandler marks a goal complete. Completing it again refreshes
// date_completed.
func CompleteGoalHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	req, ok := decodeGoalRef(w, r)
	if !ok {
		return
	}

	var goal *models.Goal
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		goal, err = utils.CompleteGoal(ctx, tx, *req.UserID, *req.GoalID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func DeleteGoalHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	req, ok := decodeGoalRef(w, r)
	if !ok {
		return
	}

	var name string
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		name, err = utils.DeleteGoal(ctx, tx, *req.UserID, *req.GoalID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info(ctx, "goal deleted", "user_id", *req.UserID, "goal_id", *req.GoalID)
	writeJSON(w, http.StatusOK, deletedGoal{
		UserID:   *req.UserID,
		GoalID:   *req.GoalID,
		GoalName: name,
		Status:   "successfully deleted",
	})
}

// decodeGoalRef reads a {user_id, goal_id} body, writing the error response
// itself when the body is unusable.
func decodeGoalRef(w http.ResponseWriter, r *http.Request) (goalRequest, bool) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return req, false
	}
	reqErr := &utils.RequestError{}
	required(reqErr, "user_id", req.UserID != nil)
	required(reqErr, "goal_id", req.GoalID != nil)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return req, false
	}
	return req, true
}

// SearchGoalsHandler serves GET /goals/search/.
func SearchGoalsHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	q := newQueryParams(r)
	opts := q.searchOptions("goal_name")
	if err := q.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var page *models.SearchPage[models.Goal]
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		page, err = utils.SearchGoals(ctx, tx, opts)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func CountGoalsHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	q := newQueryParams(r)
	userID := q.requiredInt64("user_id")
	if err := q.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var counts *models.Counts
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		counts, err = utils.CountGoals(ctx, tx, userID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// GoalProgressHandler reports time spent and task completion for one goal.
func GoalProgressHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	q := newQueryParams(r)
	userID := q.requiredInt64("user_id")
	goalID := q.requiredInt64("goal_id")
	if err := q.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var progress *models.GoalProgress
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		progress, err = utils.GetGoalProgress(ctx, tx, userID, goalID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}
