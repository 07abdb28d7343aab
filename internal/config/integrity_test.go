package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockAndVerify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chirpgw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service:\n  name: chirpgw\n"), 0600))

	hash, err := Lock(path, false)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// Manifest written next to the config file.
	_, err = os.Stat(filepath.Join(dir, ".checksums"))
	require.NoError(t, err)

	assert.NoError(t, VerifyIfLocked(path))
}

func TestVerify_DetectsTampering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chirpgw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service:\n  name: chirpgw\n"), 0600))

	_, err := Lock(path, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("service:\n  name: tampered\n"), 0600))

	err = VerifyIfLocked(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integrity check failed")
}

func TestVerify_UnlockedConfigPasses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chirpgw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: {}\n"), 0600))

	// No .checksums present: locking is opt-in.
	assert.NoError(t, VerifyIfLocked(path))
}

func TestLock_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chirpgw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: {}\n"), 0600))

	hash, err := Lock(path, true)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	_, err = os.Stat(filepath.Join(dir, ".checksums"))
	assert.True(t, os.IsNotExist(err))
}
