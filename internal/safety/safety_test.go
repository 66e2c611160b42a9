package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllowed(t *testing.T) {
	t.Run("ordinary commands pass", func(t *testing.T) {
		for _, cmd := range []string{
			"ls -la",
			"rm file.txt",
			"rm -rf ./build",
			"dd if=backup.img of=restore.img",
			"chmod -R 777 ./public",
			"grep -r 'mkfs' docs/",
		} {
			assert.NoError(t, CheckAllowed(cmd), cmd)
		}
	})

	t.Run("destructive commands are blocked", func(t *testing.T) {
		for _, cmd := range []string{
			"rm -rf /",
			"rm -rf /home",
			"sudo rm -rf /var",
			"mkfs.ext4 /dev/sda1",
			"dd if=/dev/zero of=/dev/sda",
			"dd if=/dev/urandom of=/dev/nvme0n1",
			"wipefs -a /dev/sdb",
			"chmod -R 777 /",
			":(){ :|:& };:",
		} {
			err := CheckAllowed(cmd)
			require.Error(t, err, cmd)
			assert.ErrorIs(t, err, ErrBlocked, cmd)
		}
	})

	t.Run("empty command is rejected", func(t *testing.T) {
		assert.Error(t, CheckAllowed(""))
		assert.Error(t, CheckAllowed("   "))
	})
}

func TestNeedsConfirmation(t *testing.T) {
	t.Run("prefix stripped", func(t *testing.T) {
		cmd, destructive := NeedsConfirmation("CONFIRM: rm -r ./cache")
		assert.True(t, destructive)
		assert.Equal(t, "rm -r ./cache", cmd)
	})

	t.Run("surrounding whitespace tolerated", func(t *testing.T) {
		cmd, destructive := NeedsConfirmation("  CONFIRM:rm old.log  ")
		assert.True(t, destructive)
		assert.Equal(t, "rm old.log", cmd)
	})

	t.Run("plain command untouched", func(t *testing.T) {
		cmd, destructive := NeedsConfirmation("ls -la")
		assert.False(t, destructive)
		assert.Equal(t, "ls -la", cmd)
	})
}

func TestVerifyRetyped(t *testing.T) {
	assert.True(t, VerifyRetyped("rm -r ./cache", "rm -r ./cache"))
	assert.True(t, VerifyRetyped("rm -r ./cache", "  rm -r ./cache \n"))
	assert.False(t, VerifyRetyped("rm -r ./cache", "rm -r ./caches"))
	assert.False(t, VerifyRetyped("rm -r ./cache", ""))
}
