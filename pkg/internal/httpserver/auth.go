package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// SetStaticHeaders enforces constant header key/value pairs on incoming API requests.
// An API key is configured as {"X-API-Key": "<key>"}.
func (s *apiServer) SetStaticHeaders(headers map[string]string) {
	s.requireNotFrozen("SetStaticHeaders")
	s.configLock.Lock()
	s.staticHeaders = cloneHeaderMap(headers)
	s.configLock.Unlock()
}

// SetAuthRequired toggles strict auth enforcement. When false, failures are logged only.
func (s *apiServer) SetAuthRequired(required bool) {
	s.requireNotFrozen("SetAuthRequired")
	s.configLock.Lock()
	s.authRequired = required
	s.configLock.Unlock()
}

func (s *apiServer) authorizeRequest(r *http.Request, cfg serverConfig) error {
	if len(cfg.staticHeaders) == 0 {
		return nil
	}
	if err := checkStaticHeaders(collectHeaders(r), cfg.staticHeaders); err != nil {
		return s.applyAuthPolicy(err, cfg.authRequired)
	}
	return nil
}

func (s *apiServer) applyAuthPolicy(err error, required bool) error {
	if err == nil {
		return nil
	}
	if required {
		return err
	}
	s.NotifyLoggers(
		types.WarnLevel,
		"Auth: soft-failing policy error",
		"component", s.componentMetadata,
		"event", "AuthPolicy",
		"error", err,
	)
	return nil
}

func checkStaticHeaders(headers map[string]string, required map[string]string) error {
	for key, expected := range required {
		got, ok := headers[strings.ToLower(key)]
		if !ok || got != expected {
			return errors.New("missing/invalid header " + key)
		}
	}
	return nil
}

func collectHeaders(r *http.Request) map[string]string {
	out := make(map[string]string)
	for key, vals := range r.Header {
		if len(vals) == 0 {
			continue
		}
		out[strings.ToLower(key)] = vals[0]
	}
	return out
}

func cloneHeaderMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
