package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joshualeeee/GetItDone/models"
	"github.com/joshualeeee/GetItDone/utils"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// maxBodyBytes caps the size of a JSON request body.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. Syntax and type problems come
// back as a *utils.RequestError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	reqErr := &utils.RequestError{}
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		reqErr.Add("body", "request body too large")
	case errors.Is(err, io.EOF):
		reqErr.Add("body", "field required")
	case errors.As(err, &typeErr):
		reqErr.Add("body."+typeErr.Field, "value is not a valid "+typeName(typeErr.Type.String()))
	default:
		reqErr.Add("body", "invalid JSON")
	}
	return reqErr
}

func typeName(goType string) string {
	switch strings.TrimPrefix(goType, "*") {
	case "int", "int64":
		return "integer"
	case "string":
		return "string"
	case "bool":
		return "boolean"
	}
	return goType
}

// required records a missing body field.
func required(reqErr *utils.RequestError, name string, present bool) {
	if !present {
		reqErr.Add("body."+name, "field required")
	}
}

// parseDateField parses an optional YYYY-MM-DD body field.
func parseDateField(reqErr *utils.RequestError, name string, s *string) *time.Time {
	if s == nil {
		return nil
	}
	d, err := utils.ParseDate(*s)
	if err != nil {
		reqErr.Add("body."+name, err.Error())
		return nil
	}
	return &d
}

// queryParams parses URL query values, collecting every problem instead of
// stopping at the first.
type queryParams struct {
	values url.Values
	errs   utils.RequestError
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

func (q *queryParams) requiredInt64(key string) int64 {
	if q.values.Get(key) == "" {
		q.errs.Add("query."+key, "field required")
		return 0
	}
	return q.parseInt64(key)
}

func (q *queryParams) optionalInt64(key string) *int64 {
	if q.values.Get(key) == "" {
		return nil
	}
	v := q.parseInt64(key)
	return &v
}

func (q *queryParams) parseInt64(key string) int64 {
	v, err := strconv.ParseInt(q.values.Get(key), 10, 64)
	if err != nil {
		q.errs.Add("query."+key, "value is not a valid integer")
	}
	return v
}

func (q *queryParams) intOr(key string, def int) int {
	if q.values.Get(key) == "" {
		return def
	}
	v, err := strconv.Atoi(q.values.Get(key))
	if err != nil {
		q.errs.Add("query."+key, "value is not a valid integer")
	}
	return v
}

// searchOptions reads the filters shared by goal and task searches. nameKey is
// the query key of the name filter.
func (q *queryParams) searchOptions(nameKey string) models.SearchOptions {
	opts := models.DefaultSearchOptions(q.requiredInt64("user_id"))
	opts.Name = q.values.Get(nameKey)
	opts.Page = q.intOr("search_page", 0)

	if s := q.values.Get("complete_options"); s != "" {
		c, err := models.ParseCompleteOption(s)
		if err != nil {
			q.errs.Add("query.complete_options", err.Error())
		}
		opts.Completed = c
	}
	if s := q.values.Get("sort_col"); s != "" {
		c, err := models.ParseSortColumn(s)
		if err != nil {
			q.errs.Add("query.sort_col", err.Error())
		}
		opts.SortCol = c
	}
	if s := q.values.Get("sort_order"); s != "" {
		o, err := models.ParseSortOrder(s)
		if err != nil {
			q.errs.Add("query.sort_order", err.Error())
		}
		opts.SortOrder = o
	}
	return opts
}

func (q *queryParams) Err() error {
	return q.errs.Err()
}
