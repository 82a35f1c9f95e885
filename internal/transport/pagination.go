package transport

import "time"

// PaginatedList is the offset-pagination shape shared by the activity feed and
// receiver search.
type PaginatedList[T any] struct {
	Items           []T   `json:"items"`
	PageIndex       int   `json:"pageIndex"`
	PageSize        int   `json:"pageSize"`
	TotalCount      int64 `json:"totalCount"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

func NewPaginatedList[T any](items []T, count int64, pageIndex, pageSize int) PaginatedList[T] {
	totalPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if items == nil {
		items = []T{}
	}
	return PaginatedList[T]{
		Items:           items,
		PageIndex:       pageIndex,
		PageSize:        pageSize,
		TotalCount:      count,
		TotalPages:      totalPages,
		HasPreviousPage: pageIndex > 1,
		HasNextPage:     pageIndex < totalPages,
	}
}

// InfiniteScrollList is the cursor-pagination shape for the chat history:
// pass NextTimestamp back as the next request's "before" to continue.
type InfiniteScrollList[T any] struct {
	Items         []T        `json:"items"`
	HasMore       bool       `json:"hasMore"`
	NextTimestamp *time.Time `json:"nextTimestamp"`
}
