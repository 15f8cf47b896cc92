// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions for query parameters.

Do not use it where malformed input must be told apart from a missing value;
parse with [strconv] and report the error instead.
*/
package convert

import "strconv"

// ToIntD converts a string to an int, returning def if the string is empty
// or cannot be parsed.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}
	return def
}
