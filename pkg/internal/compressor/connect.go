package compressor

import "github.com/joeydtaylor/condenser/pkg/internal/types"

// ConnectLogger attaches logger(s).
func (c *compressor) ConnectLogger(loggers ...types.Logger) {
	c.requireNotFrozen("ConnectLogger")

	if len(loggers) == 0 {
		return
	}

	n := 0
	for _, logger := range loggers {
		if logger != nil {
			loggers[n] = logger
			n++
		}
	}
	if n == 0 {
		return
	}
	loggers = loggers[:n]

	c.loggersLock.Lock()
	c.loggers = append(c.loggers, loggers...)
	c.loggersLock.Unlock()
}

// ConnectHistory sets the store processed results are saved to.
func (c *compressor) ConnectHistory(store types.HistoryStore) {
	c.requireNotFrozen("ConnectHistory")
	if store == nil {
		return
	}
	c.collabsLock.Lock()
	c.history = store
	c.collabsLock.Unlock()
}

// ConnectPublisher attaches event publisher(s).
func (c *compressor) ConnectPublisher(publishers ...types.EventPublisher) {
	c.requireNotFrozen("ConnectPublisher")

	n := 0
	for _, p := range publishers {
		if p != nil {
			publishers[n] = p
			n++
		}
	}
	if n == 0 {
		return
	}

	c.collabsLock.Lock()
	c.publishers = append(c.publishers, publishers[:n]...)
	c.collabsLock.Unlock()
}

func (c *compressor) snapshotCollaborators() (types.HistoryStore, []types.EventPublisher) {
	c.collabsLock.Lock()
	defer c.collabsLock.Unlock()

	pubs := make([]types.EventPublisher, len(c.publishers))
	copy(pubs, c.publishers)
	return c.history, pubs
}
