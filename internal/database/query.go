package database

import "strings"

// inClause returns "?, ?, ?" for len(ids) placeholders and the matching args.
func inClause(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
