package logfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wpilog/pkg/codec"
	"github.com/ssargent/wpilog/pkg/wpilog"
)

func sampleLog() []byte {
	return codec.NewBuilder("robot").
		Start(1, 0, "/drive/speed", "double", "").
		Double(1, 5, 1.5).
		Double(1, 10, 2.5).
		Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestOpen_Plain(t *testing.T) {
	raw := sampleLog()
	path := writeFile(t, "match.wpilog", raw)

	f, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, path, f.Path())
	assert.True(t, f.Mapped())
	assert.False(t, f.Compressed())
	assert.Equal(t, raw, f.Bytes())
	assert.Equal(t, len(raw), f.Size())

	log, err := wpilog.Parse(f.Bytes(), wpilog.Options{})
	require.NoError(t, err)
	assert.Equal(t, "robot", log.Metadata())
	speed, ok := log.Entry("/drive/speed")
	require.True(t, ok)
	assert.Equal(t, 2, speed.Len())
}

func TestOpen_Compressed(t *testing.T) {
	raw := sampleLog()
	packed, err := Compress(raw)
	require.NoError(t, err)
	path := writeFile(t, "match.wpilog.zst", packed)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, f.Mapped())
	assert.True(t, f.Compressed())
	assert.Equal(t, raw, f.Bytes())
}

func TestOpen_CorruptCompressed(t *testing.T) {
	path := writeFile(t, "bad.zst", append([]byte{0x28, 0xb5, 0x2f, 0xfd}, 0xff, 0xff, 0xff))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decompress log file")
}

func TestOpen_Empty(t *testing.T) {
	path := writeFile(t, "empty.wpilog", nil)

	f, err := Open(path)
	require.NoError(t, err)
	assert.False(t, f.Mapped())
	assert.Empty(t, f.Bytes())
	require.NoError(t, f.Close())

	_, err = wpilog.Parse(f.Bytes(), wpilog.Options{})
	assert.ErrorIs(t, err, codec.ErrBadMagic)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.wpilog"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestClose_Twice(t *testing.T) {
	path := writeFile(t, "match.wpilog", sampleLog())

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Nil(t, f.Bytes())
}
