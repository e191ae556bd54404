package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/joshualeeee/GetItDone/models"
)

// PageSize is the number of rows in a search page. Searches fetch one extra
// row to find out whether a next page exists.
const PageSize = 5

// maxPage is the last page whose offset fits in an int.
const maxPage = (math.MaxInt - PageSize) / PageSize

func checkPage(page int) error {
	if page < 0 || page > maxPage {
		return ErrPageOutOfBounds
	}
	return nil
}

// PageBounds returns the OFFSET and LIMIT used to fetch page.
func PageBounds(page int) (offset, limit int, err error) {
	if err := checkPage(page); err != nil {
		return 0, 0, err
	}
	return page * PageSize, PageSize + 1, nil
}

// Paginate trims rows fetched with PageBounds down to one page.
func Paginate[T any](userID int64, page int, rows []T) (*models.SearchPage[T], error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}

	nextPage := -1
	if len(rows) > PageSize {
		nextPage = page + 1
		rows = rows[:PageSize]
	}
	if len(rows) == 0 && page > 0 {
		return nil, ErrPageOutOfBounds
	}
	if rows == nil {
		rows = []T{}
	}

	start := page * PageSize
	return &models.SearchPage[T]{
		UserID:     userID,
		NextPage:   nextPage,
		StartEntry: start,
		EndEntry:   start + len(rows) - 1,
		Results:    rows,
	}, nil
}

// searchQuery accumulates WHERE conditions and their positional arguments.
type searchQuery struct {
	conditions []string
	args       []any
}

// add appends cond with its argument; cond holds one %d for the placeholder index.
func (q *searchQuery) add(cond string, arg any) {
	q.args = append(q.args, arg)
	q.conditions = append(q.conditions, fmt.Sprintf(cond, len(q.args)))
}

func (q *searchQuery) where() string {
	return strings.Join(q.conditions, " AND ")
}

// placeholder appends arg and returns its $n.
func (q *searchQuery) placeholder(arg any) string {
	q.args = append(q.args, arg)
	return fmt.Sprintf("$%d", len(q.args))
}

// buildSearch renders the WHERE, ORDER BY and LIMIT/OFFSET tail of a goal or
// task search against the table aliased as alias. Sorting on date_completed
// narrows the results to completed rows.
func buildSearch(alias, nameColumn string, opts models.SearchOptions) (string, []any, error) {
	offset, limit, err := PageBounds(opts.Page)
	if err != nil {
		return "", nil, err
	}

	q := &searchQuery{}
	q.add(alias+`."user" = $%d`, opts.UserID)
	q.add(alias+"."+nameColumn+` ILIKE $%d`, "%"+escapeLike(opts.Name)+"%")

	completed := opts.Completed
	sortColumn := "date_created"
	if opts.SortCol == models.SortDateCompleted {
		sortColumn = "date_completed"
		completed = models.Complete
	}
	switch completed {
	case models.Complete:
		q.conditions = append(q.conditions, alias+".complete = true")
	case models.Incomplete:
		q.conditions = append(q.conditions, alias+".complete = false")
	}

	if opts.GoalID != nil {
		q.add(alias+".goal = $%d", *opts.GoalID)
	}

	direction := "DESC"
	if opts.SortOrder == models.Asc {
		direction = "ASC"
	}

	tail := fmt.Sprintf(" WHERE %s ORDER BY %s.%s %s, %s.id %s LIMIT %s OFFSET %s",
		q.where(),
		alias, sortColumn, direction,
		alias, direction,
		q.placeholder(limit), q.placeholder(offset),
	)
	return tail, q.args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
