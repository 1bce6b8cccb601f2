package livefeed

import (
	"fmt"
	"strings"
	"time"
)

type hubConfig struct {
	allowedOrigins []string
	sendBuffer     int
	maxConnections int
	writeTimeout   time.Duration
}

func (h *hub) requireNotFrozen(action string) {
	if h.isFrozen() {
		panic(fmt.Sprintf("attempted to modify frozen configuration of started component: %s, action=%s", h.componentMetadata, action))
	}
}

// SetAllowedOrigins sets the host patterns accepted for cross-origin upgrades.
func (h *hub) SetAllowedOrigins(patterns ...string) {
	h.requireNotFrozen("SetAllowedOrigins")
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	h.configLock.Lock()
	h.allowedOrigins = out
	h.configLock.Unlock()
}

// SetSendBuffer sets the per-client queue length. Values <= 0 restore the default.
func (h *hub) SetSendBuffer(n int) {
	h.requireNotFrozen("SetSendBuffer")
	if n <= 0 {
		n = DefaultSendBuffer
	}
	h.configLock.Lock()
	h.sendBuffer = n
	h.configLock.Unlock()
}

// SetMaxConnections caps concurrent clients; 0 means unlimited.
func (h *hub) SetMaxConnections(n int) {
	h.requireNotFrozen("SetMaxConnections")
	if n < 0 {
		n = 0
	}
	h.configLock.Lock()
	h.maxConnections = n
	h.configLock.Unlock()
}

func (h *hub) SetWriteTimeout(d time.Duration) {
	h.requireNotFrozen("SetWriteTimeout")
	h.configLock.Lock()
	h.writeTimeout = d
	h.configLock.Unlock()
}

func (h *hub) snapshotConfig() hubConfig {
	h.configLock.Lock()
	defer h.configLock.Unlock()

	origins := make([]string, len(h.allowedOrigins))
	copy(origins, h.allowedOrigins)
	return hubConfig{
		allowedOrigins: origins,
		sendBuffer:     h.sendBuffer,
		maxConnections: h.maxConnections,
		writeTimeout:   h.writeTimeout,
	}
}
