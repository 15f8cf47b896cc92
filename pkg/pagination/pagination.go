// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters.
// Missing, malformed or zero values fall back to the defaults instead of
// being rejected; no upper bound is enforced.
package pagination

import (
	"math"
	"net/url"

	"github.com/taibuivan/trailhead/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of items to skip: (Page-1) * Limit.
//
// A negative page yields a negative offset. The product saturates at the
// int bounds instead of wrapping.
func (p Params) Offset() int {
	switch estimate := (float64(p.Page) - 1) * float64(p.Limit); {
	case estimate >= math.MaxInt:
		return math.MaxInt
	case estimate <= math.MinInt:
		return math.MinInt
	}
	return (p.Page - 1) * p.Limit
}

// FromValues parses "page" and "limit" from query values.
// A repeated key keeps its last value.
func FromValues(values url.Values) Params {
	return Params{
		Page:  parseOrDefault(last(values, "page"), DefaultPage),
		Limit: parseOrDefault(last(values, "limit"), DefaultLimit),
	}
}

func last(values url.Values, key string) string {
	if found := values[key]; len(found) > 0 {
		return found[len(found)-1]
	}
	return ""
}

// parseOrDefault treats zero like an absent value.
func parseOrDefault(raw string, def int) int {
	n := convert.ToIntD(raw, def)
	if n == 0 {
		return def
	}
	return n
}
