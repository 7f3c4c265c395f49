package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jamesatitpong11/labflow-sub001/internal/database"
)

const (
	_dateLayout = "2006-01-02"

	_defaultPageSize = 50
	_maxPageSize     = 200
)

func dateQueryParam(r *http.Request, key string, loc *time.Location) (time.Time, bool, error) {
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok || val == "" {
		return time.Time{}, false, nil
	}
	val = strings.Trim(val, `'"`)
	t, err := time.ParseInLocation(_dateLayout, val, loc)
	return t, true, err
}

func defaultIntQueryParams(r *http.Request, key string, def int) int {
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

func optionalStringQueryParams(r *http.Request, key string) *string {
	ref := new(string)
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok || strings.TrimSpace(val) == "" {
		return nil
	}
	*ref = strings.TrimSpace(val)
	return ref
}

func findOptionsFromRequest(r *http.Request) database.FindOptions {
	limit := defaultIntQueryParams(r, "limit", _defaultPageSize)
	if limit <= 0 || limit > _maxPageSize {
		limit = _defaultPageSize
	}

	offset := defaultIntQueryParams(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	return database.FindOptions{Limit: uint64(limit), Offset: uint64(offset)}
}

// parseOptionalDate accepts YYYY-MM-DD or RFC 3339.
func parseOptionalDate(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}

	val := strings.TrimSpace(*s)
	if t, err := time.ParseInLocation(_dateLayout, val, loc); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
