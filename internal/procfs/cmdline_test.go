package procfs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCmdline_SelfProcess(t *testing.T) {
	if _, err := os.Stat("/proc/self/cmdline"); err != nil {
		t.Skip("no /proc on this platform")
	}

	got, err := ReadCmdline(os.Getpid())
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestReadCmdline_MissingPid(t *testing.T) {
	if _, err := os.Stat("/proc"); err != nil {
		t.Skip("no /proc on this platform")
	}
	_, err := ReadCmdline(1 << 30)
	assert.Error(t, err)
}
