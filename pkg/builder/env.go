package builder

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvOr returns the trimmed env value or def when empty.
func EnvOr(key, def string) string {
	v := strings.TrimSpace(strings.Trim(os.Getenv(key), `"`))
	if v == "" {
		return def
	}
	return v
}

// EnvIntOr returns the parsed int env value or def on empty/parse failure.
func EnvIntOr(key string, def int) int {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvBoolOr accepts the strconv.ParseBool forms plus yes/no and on/off.
func EnvBoolOr(key string, def bool) bool {
	switch strings.ToLower(EnvOr(key, "")) {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(EnvOr(key, ""))
	if err != nil {
		return def
	}
	return b
}

// EnvDurationOr parses Go durations ("30s"); a bare integer is read as seconds.
func EnvDurationOr(key string, def time.Duration) time.Duration {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// EnvListOr splits a comma separated value, dropping empty items.
func EnvListOr(key string, def []string) []string {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
