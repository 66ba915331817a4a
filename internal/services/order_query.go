package services

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	"frieren/internal/domain"
)

// ParseOrderQuery turns admin list parameters into a store query. Paging and
// sorting are lenient and fall back to defaults; a malformed filter value is a
// ValidationError so the admin sees why nothing matched.
func ParseOrderQuery(params map[string]string) (domain.OrderQuery, error) {
	q := domain.OrderQuery{
		Page:      1,
		Limit:     domain.DefaultPageSize,
		SortField: domain.DefaultSort,
		SortOrder: domain.SortDesc,
	}
	bad := map[string]string{}

	if p, err := cast.ToIntE(strings.TrimSpace(params["page"])); err == nil && p > 0 {
		q.Page = min(p, domain.MaxPage)
	}
	if l, err := cast.ToIntE(strings.TrimSpace(params["limit"])); err == nil && l > 0 {
		q.Limit = min(l, domain.MaxPageSize)
	}
	if f := strings.TrimSpace(params["sortField"]); f != "" {
		q.SortField = f
	}
	if strings.EqualFold(strings.TrimSpace(params["sortOrder"]), string(domain.SortAsc)) {
		q.SortOrder = domain.SortAsc
	}

	switch s := strings.TrimSpace(params["status"]); s {
	case "", "all":
	default:
		st := domain.Status(strings.ToLower(s))
		if !st.Valid() {
			bad["status"] = "Invalid status value"
		}
		q.Filter.Status = st
	}

	q.Filter.Search = strings.TrimSpace(params["search"])

	if s := strings.TrimSpace(params["startDate"]); s != "" {
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			bad["startDate"] = "Invalid date"
		} else {
			q.Filter.StartDate = &t
		}
	}
	if s := strings.TrimSpace(params["endDate"]); s != "" {
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			bad["endDate"] = "Invalid date"
		} else {
			if !strings.Contains(s, ":") {
				// a bare date covers the whole day
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			q.Filter.EndDate = &t
		}
	}

	q.Filter.MinPrice = parsePrice(params, "minPrice", bad)
	q.Filter.MaxPrice = parsePrice(params, "maxPrice", bad)

	if len(bad) > 0 {
		return domain.OrderQuery{}, &domain.ValidationError{Fields: bad}
	}
	return q, nil
}

func parsePrice(params map[string]string, key string, bad map[string]string) *float64 {
	s := strings.TrimSpace(params[key])
	if s == "" {
		return nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		bad[key] = "Invalid price"
		return nil
	}
	return &v
}
