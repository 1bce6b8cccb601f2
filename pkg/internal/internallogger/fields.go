package internallogger

import (
	"sort"

	"go.uber.org/zap"
)

// fieldsFromMap converts initial fields in key order so output is stable.
func fieldsFromMap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, zap.Any(key, fields[key]))
	}
	return out
}
