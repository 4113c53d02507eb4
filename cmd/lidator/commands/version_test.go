package commands

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lidator/cmd"
)

func TestVersionCommand(t *testing.T) {
	newTestEnv(t)

	out, _, err := execute(t, "version")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "lidator version "+cmd.ResolvedVersion(), lines[0])
	assert.Contains(t, lines[1], cmd.Commit)
	assert.Contains(t, lines[2], cmd.Date)
	assert.Contains(t, lines[3], runtime.Version())
}

func TestVersionCommand_Metadata(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotEmpty(t, versionCmd.Long)
}
