package handlers

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/logging"
	"github.com/joshualeeee/GetItDone/models"
	"github.com/joshualeeee/GetItDone/utils"
)

type credentials struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// check reports missing fields of c into reqErr.
func (c credentials) check(reqErr *utils.RequestError) {
	required(reqErr, "username", c.Username != nil)
	required(reqErr, "password", c.Password != nil)
}

type newUserRequest struct {
	credentials
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type userResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Status   string `json:"status,omitempty"`
}

// AddUserHandler registers a user after validating the handle, the optional
// email and the password.
func AddUserHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req newUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	req.check(reqErr)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := utils.ValidateUsername(*req.Username); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email != nil && *req.Email == "" {
		req.Email = nil
	}
	if req.Email != nil {
		if err := utils.ValidateEmail(*req.Email); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if err := utils.ValidatePassword(*req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	var user *models.User
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		user, err = utils.AddUser(ctx, tx, *req.Username, *req.Password, req.Name, req.Email)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info(ctx, "user added", "user_id", user.ID)
	writeJSON(w, http.StatusOK, userResponse{UserID: user.ID, Username: user.Username})
}

// ValidateUserHandler checks a username and password pair.
func ValidateUserHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	req.check(reqErr)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var user *models.User
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		user, err = utils.AuthenticateUser(ctx, tx, *req.Username, *req.Password)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{UserID: user.ID, Username: user.Username})
}

// DeleteUserHandler removes a user together with its goals and tasks. The
// caller must present the user's password.
func DeleteUserHandler(w http.ResponseWriter, r *http.Request, db *sqlx.DB) {
	ctx := r.Context()

	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqErr := &utils.RequestError{}
	req.check(reqErr)
	if err := reqErr.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	var user *models.User
	err := utils.WithTx(ctx, db, func(ctx context.Context, tx utils.DBTX) error {
		var err error
		user, err = utils.AuthenticateUser(ctx, tx, *req.Username, *req.Password)
		if err != nil {
			return err
		}
		return utils.DeleteUser(ctx, tx, user.ID)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info(ctx, "user deleted", "user_id", user.ID)
	writeJSON(w, http.StatusOK, userResponse{UserID: user.ID, Username: user.Username, Status: "successfully deleted"})
}
