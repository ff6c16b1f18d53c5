package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFleetctlCommandRegistersSubcommands(t *testing.T) {
	root := NewDefaultFleetctlCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["converge"])
	assert.True(t, names["lift"])
	assert.True(t, names["watch"])
}
