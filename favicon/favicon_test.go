package favicon

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogo(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

// icoHeader checks the ICONDIR header and returns the first entry's size.
func icoHeader(t *testing.T, data []byte) (count, width, height int) {
	t.Helper()

	require.GreaterOrEqual(t, len(data), 6+16)
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[0:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[2:]))

	width, height = int(data[6]), int(data[7])
	if width == 0 {
		width = 256
	}
	if height == 0 {
		height = 256
	}
	return int(binary.LittleEndian.Uint16(data[4:])), width, height
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	outDir := filepath.Join(t.TempDir(), "public", "nested")
	res, err := Generate(context.Background(), testLogo(300, 200), outDir, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "favicon.ico"), res.ICOPath)
	assert.Equal(t, filepath.Join(outDir, "icon-192.png"), res.PNGPath)

	icoData, err := os.ReadFile(res.ICOPath)
	require.NoError(t, err)
	count, w, h := icoHeader(t, icoData)
	assert.Equal(t, 1, count)
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)

	pngData, err := os.ReadFile(res.PNGPath)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	require.NoError(t, err)
	assert.Equal(t, 192, cfg.Width)
	assert.Equal(t, 192, cfg.Height)
}

func TestGenerate_CustomSizes(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.ICOSize = 256
	opts.PNGSize = 512
	opts.PNGName = "icon-512.png"

	res, err := Generate(context.Background(), testLogo(64, 64), t.TempDir(), opts)
	require.NoError(t, err)

	icoData, err := os.ReadFile(res.ICOPath)
	require.NoError(t, err)
	_, w, h := icoHeader(t, icoData)
	assert.Equal(t, 256, w)
	assert.Equal(t, 256, h)

	f, err := os.Open(res.PNGPath)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{name: "zero ico", mutate: func(o *Options) { o.ICOSize = 0 }},
		{name: "ico too large", mutate: func(o *Options) { o.ICOSize = 257 }},
		{name: "negative png", mutate: func(o *Options) { o.PNGSize = -1 }},
		{name: "empty name", mutate: func(o *Options) { o.ICOName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			tt.mutate(&opts)
			dir := filepath.Join(t.TempDir(), "out")

			_, err := Generate(context.Background(), testLogo(8, 8), dir, opts)
			assert.Error(t, err)
			assert.NoDirExists(t, dir)
		})
	}
}

func TestGenerateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "logo-transparent.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testLogo(40, 40)))
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0o644))

	res, err := GenerateFile(context.Background(), src, dir, DefaultOptions())
	require.NoError(t, err)
	assert.FileExists(t, res.ICOPath)
	assert.FileExists(t, res.PNGPath)

	_, err = GenerateFile(context.Background(), filepath.Join(dir, "missing.png"), dir, DefaultOptions())
	assert.Error(t, err)
}

func TestEncodeICO_TooLarge(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Error(t, EncodeICO(&buf, testLogo(300, 10)))
}
