// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package strutils

import "strings"

// StrListContains looks for a string in a list of strings.
func StrListContains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}

// RemoveDuplicatesStable removes duplicate and empty elements from a slice of
// strings, preserving order (and case) of the original slice.
// A caseInsensitive flag controls whether "A" and "a" are treated as
// duplicates. Elements are trimmed before comparison.
func RemoveDuplicatesStable(items []string, caseInsensitive bool) []string {
	itemsMap := make(map[string]bool, len(items))
	deduplicated := make([]string, 0, len(items))

	for _, item := range items {
		key := strings.TrimSpace(item)
		if key == "" {
			continue
		}
		if caseInsensitive {
			key = strings.ToLower(key)
		}
		if itemsMap[key] {
			continue
		}
		itemsMap[key] = true
		deduplicated = append(deduplicated, item)
	}
	return deduplicated
}

// SplitScopes turns a space or comma separated scope string into a clean list
// of scopes. Empty entries and duplicates are dropped.
func SplitScopes(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	return RemoveDuplicatesStable(fields, false)
}

// Missing returns the entries of want which are not in have, in the order
// they appear in want.
func Missing(have, want []string) []string {
	var missing []string
	for _, w := range want {
		if !StrListContains(have, w) {
			missing = append(missing, w)
		}
	}
	return missing
}
