package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/handlers"
	"github.com/joshualeeee/GetItDone/logging"
)

// routes registers every endpoint. All routes except GET / require the API key.
func routes(db *sqlx.DB, apiKey string, allowedOrigins []string, log logging.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handlers.RootHandler)

	protected := handlers.RequireAPIKey(apiKey)
	handle := func(pattern string, h func(http.ResponseWriter, *http.Request, *sqlx.DB)) {
		mux.Handle(pattern, protected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h(w, r, db)
		})))
	}

	// users
	handle("POST /users/add", handlers.AddUserHandler)
	handle("POST /users/validate", handlers.ValidateUserHandler)
	handle("DELETE /users/delete", handlers.DeleteUserHandler)

	// goals
	handle("POST /goals/add", handlers.AddGoalHandler)
	handle("PUT /goals/complete", handlers.CompleteGoalHandler)
	handle("DELETE /goals/delete", handlers.DeleteGoalHandler)
	handle("GET /goals/search/", handlers.SearchGoalsHandler)
	handle("GET /goals/count", handlers.CountGoalsHandler)
	handle("GET /goals/progress", handlers.GoalProgressHandler)

	// tasks
	handle("POST /tasks/add", handlers.AddTaskHandler)
	handle("PUT /tasks/complete", handlers.CompleteTaskHandler)
	handle("PUT /tasks/set/goal", handlers.SetTaskGoalHandler)
	handle("DELETE /tasks/delete", handlers.DeleteTaskHandler)
	handle("GET /tasks/search/", handlers.SearchTasksHandler)
	handle("GET /tasks/count", handlers.CountTasksHandler)
	handle("GET /tasks/weekly", handlers.WeeklyTasksHandler)

	return handlers.Chain(mux,
		handlers.CORS(allowedOrigins),
		handlers.LogRequests(log),
		handlers.Recover(),
	)
}
