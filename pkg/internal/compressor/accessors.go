package compressor

import "github.com/joeydtaylor/condenser/pkg/internal/types"

func (c *compressor) GetComponentMetadata() types.ComponentMetadata {
	return c.componentMetadata
}

func (c *compressor) SetComponentMetadata(name string, id string) {
	c.requireNotFrozen("SetComponentMetadata")
	c.componentMetadata.Name = name
	c.componentMetadata.ID = id
}
