package models

import "fmt"

// SortColumn is the timestamp a search is ordered by.
type SortColumn string

const (
	SortDateCreated   SortColumn = "date_created"
	SortDateCompleted SortColumn = "date_completed"
)

// CompleteOption filters search results on their completion flag.
type CompleteOption string

const (
	Incomplete   CompleteOption = "incomplete"
	Complete     CompleteOption = "complete"
	BothComplete CompleteOption = "both"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func ParseSortColumn(s string) (SortColumn, error) {
	switch c := SortColumn(s); c {
	case SortDateCreated, SortDateCompleted:
		return c, nil
	}
	return "", fmt.Errorf("value is not a valid enumeration member; permitted: '%s', '%s'", SortDateCreated, SortDateCompleted)
}

func ParseCompleteOption(s string) (CompleteOption, error) {
	switch c := CompleteOption(s); c {
	case Incomplete, Complete, BothComplete:
		return c, nil
	}
	return "", fmt.Errorf("value is not a valid enumeration member; permitted: '%s', '%s', '%s'", Incomplete, Complete, BothComplete)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case Asc, Desc:
		return o, nil
	}
	return "", fmt.Errorf("value is not a valid enumeration member; permitted: '%s', '%s'", Asc, Desc)
}

// SearchOptions holds the filters shared by goal and task searches.
// GoalID only applies to task searches.
type SearchOptions struct {
	UserID    int64
	Name      string
	GoalID    *int64
	Completed CompleteOption
	Page      int
	SortCol   SortColumn
	SortOrder SortOrder
}

// DefaultSearchOptions returns the filters used when a request omits them.
func DefaultSearchOptions(userID int64) SearchOptions {
	return SearchOptions{
		UserID:    userID,
		Completed: Incomplete,
		SortCol:   SortDateCreated,
		SortOrder: Desc,
	}
}

// SearchPage is one page of search results. NextPage is -1 when there is no
// further page.
type SearchPage[T any] struct {
	UserID     int64 `json:"user_id"`
	NextPage   int   `json:"next_page"`
	StartEntry int   `json:"start_entry"`
	EndEntry   int   `json:"end_entry"`
	Results    []T   `json:"res"`
}
