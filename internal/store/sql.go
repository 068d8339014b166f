package store

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckReadOnly rejects anything but a single SELECT or WITH query. The query tools
// share the database with a running simulation and must not write to it.
func CheckReadOnly(query string) error {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")
	if strings.Contains(q, ";") {
		return fmt.Errorf("only one statement is allowed")
	}
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return fmt.Errorf("query must not be empty")
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH":
		return nil
	}
	return fmt.Errorf("only SELECT queries are allowed, got %s", fields[0])
}

// PositionalArgs orders params keyed "1", "2", ... into an argument list.
func PositionalArgs(params map[string]any) ([]any, error) {
	args := make([]any, 0, len(params))
	for i := 1; i <= len(params); i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			return nil, fmt.Errorf("missing parameter %d", i)
		}
		args = append(args, val)
	}
	return args, nil
}
