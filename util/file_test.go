package util

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nhttp "github.com/chaos-io/logokit/util/http"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOpenImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(good, pngBytes(t, 3, 2), 0o644))
	bad := filepath.Join(dir, "logo.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	img, format, err := OpenImage(good)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, _, err = OpenImage(bad)
	assert.True(t, errors.Is(err, ErrDecode))

	_, _, err = OpenImage(filepath.Join(dir, "missing.png"))
	assert.True(t, errors.Is(err, ErrDecode))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDownloadImage(t *testing.T) {
	t.Parallel()

	data := pngBytes(t, 4, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer server.Close()

	img, format, err := LoadImage(context.Background(), server.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, _, err = DownloadImage(context.Background(), nhttp.NewHTTPClient(), server.URL+"/missing.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.Contains(t, err.Error(), "status 404")
}

func TestIsRemote(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRemote("https://example.com/logo.jpg"))
	assert.True(t, IsRemote("http://example.com/logo.jpg"))
	assert.False(t, IsRemote("/srv/www/logo.jpg"))
	assert.False(t, IsRemote("httpdocs/logo.jpg"))
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("replaces destination", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.png")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		err := WriteFileAtomic(path, func(w io.Writer) error {
			_, err := w.Write([]byte("new"))
			return err
		})
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
		assertOnlyFile(t, dir, "out.png")
	})

	t.Run("failed write leaves destination untouched", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.png")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		boom := errors.New("boom")
		err := WriteFileAtomic(path, func(w io.Writer) error {
			_, _ = w.Write([]byte("partial"))
			return boom
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrite))
		assert.True(t, errors.Is(err, boom))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "old", string(got))
		assertOnlyFile(t, dir, "out.png")
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nope", "out.png")
		err := WriteFileAtomic(path, func(w io.Writer) error { return nil })
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrite))
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, name, entries[0].Name())
}
