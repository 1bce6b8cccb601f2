package compressor

import "fmt"

func (c *compressor) requireNotFrozen(action string) {
	if c.isFrozen() {
		panic(fmt.Sprintf("attempted to modify frozen configuration of started component: %s, action=%s", c.componentMetadata, action))
	}
}
