package media_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaravadi/roam/client/internal/media"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTempPhoto writes bytes to a temp file and returns its path.
func writeTempPhoto(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad_readsFilesInOrder(t *testing.T) {
	p1 := writeTempPhoto(t, "a.jpg", []byte("first"))
	p2 := writeTempPhoto(t, "b.jpg", []byte("second"))

	loader := media.NewLoader(discardLogger())
	payloads, err := loader.Load(context.Background(), []string{p1, p2}, nil)

	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, []byte("first"), payloads[0].Bytes)
	assert.Equal(t, []byte("second"), payloads[1].Bytes)
}

// TestLoad_noExifMeansNilMetadata verifies that bytes without an EXIF block
// produce a payload with every metadata pointer nil, not an error.
func TestLoad_noExifMeansNilMetadata(t *testing.T) {
	p := writeTempPhoto(t, "screenshot.png", []byte("not a real image"))

	loader := media.NewLoader(discardLogger())
	payloads, err := loader.Load(context.Background(), []string{p}, nil)

	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Nil(t, payloads[0].Latitude)
	assert.Nil(t, payloads[0].Longitude)
	assert.Nil(t, payloads[0].CapturedAt)
	assert.False(t, payloads[0].HasMetadata())
}

// TestLoad_skipsUnreadableFiles verifies that one bad path does not abort the
// batch: the good photo still loads and the result is simply shorter.
func TestLoad_skipsUnreadableFiles(t *testing.T) {
	good := writeTempPhoto(t, "good.jpg", []byte("ok"))
	missing := filepath.Join(t.TempDir(), "does-not-exist.jpg")

	loader := media.NewLoader(discardLogger())
	payloads, err := loader.Load(context.Background(), []string{missing, good}, nil)

	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, []byte("ok"), payloads[0].Bytes)
}

// TestLoad_allFailReturnsEmpty verifies that a batch where every photo fails
// yields an empty slice and no error; the caller decides that is fatal.
func TestLoad_allFailReturnsEmpty(t *testing.T) {
	dir := t.TempDir()

	loader := media.NewLoader(discardLogger())
	payloads, err := loader.Load(context.Background(), []string{
		filepath.Join(dir, "x.jpg"),
		filepath.Join(dir, "y.jpg"),
	}, nil)

	require.NoError(t, err)
	assert.Empty(t, payloads)
}

// TestLoad_reportsProgressPerItem verifies onItem fires once per path,
// skipped or not, with a monotonically increasing done count.
func TestLoad_reportsProgressPerItem(t *testing.T) {
	good := writeTempPhoto(t, "good.jpg", []byte("ok"))
	missing := filepath.Join(t.TempDir(), "missing.jpg")

	var calls [][2]int
	loader := media.NewLoader(discardLogger())
	_, err := loader.Load(context.Background(), []string{good, missing, good}, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})

	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestLoad_cancelledContext(t *testing.T) {
	p := writeTempPhoto(t, "a.jpg", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := media.NewLoader(discardLogger())
	_, err := loader.Load(ctx, []string{p}, nil)

	require.ErrorIs(t, err, context.Canceled)
}

func TestPayload_hasMetadata(t *testing.T) {
	lat, long := 10.0, 20.0
	now := time.Now()

	tests := []struct {
		name string
		p    media.Payload
		want bool
	}{
		{"none", media.Payload{}, false},
		{"gps only", media.Payload{Latitude: &lat, Longitude: &long}, true},
		{"timestamp only", media.Payload{CapturedAt: &now}, true},
		{"latitude without longitude", media.Payload{Latitude: &lat}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.HasMetadata())
		})
	}
}
