package domain

import (
	"math"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultSort     = "createdAt"

	// MaxPage keeps (page-1)*limit inside an int32 for every allowed limit.
	MaxPage = math.MaxInt32 / MaxPageSize
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// OrderFilter is the predicate shared by the page of results and the stats.
type OrderFilter struct {
	Status    Status
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	MinPrice  *float64
	MaxPrice  *float64
}

type OrderQuery struct {
	Filter    OrderFilter
	Page      int
	Limit     int
	SortField string
	SortOrder SortOrder
}

func (q OrderQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	return (min(q.Page, MaxPage) - 1) * min(q.Limit, MaxPageSize)
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type OrderStats struct {
	TotalRevenue  int64   `json:"totalRevenue"`
	AvgOrderValue float64 `json:"avgOrderValue"`
	PendingCount  int     `json:"pendingCount"`
}

type OrderList struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
	Stats      OrderStats `json:"stats"`
}

func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
