package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogo(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 10, 42, 59, 255
	}
	img.SetNRGBA(3, 2, color.NRGBA{R: 220, G: 190, B: 110, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRun_RemoveBG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	dst := filepath.Join(dir, "logo-transparent.png")
	writeLogo(t, src)

	require.NoError(t, run(context.Background(), []string{"removebg", "-in", src, "-out", dst}))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	img, err := png.Decode(f)
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
	_, _, _, a = img.At(3, 2).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestRun_FaviconAndOptimize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeLogo(t, src)

	out := filepath.Join(dir, "public")
	require.NoError(t, run(context.Background(), []string{"favicon", "-in", src, "-out", out, "-png-size", "64"}))
	assert.FileExists(t, filepath.Join(out, "favicon.ico"))
	assert.FileExists(t, filepath.Join(out, "icon-64.png"))

	require.NoError(t, run(context.Background(), []string{"optimize", "-dir", out, "-max-width", "32"}))

	f, err := os.Open(filepath.Join(out, "icon-64.png"))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	dst := filepath.Join(dir, "out.png")
	writeLogo(t, src)

	cfgPath := filepath.Join(dir, "logokit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("rembg:\n  tolerance: 0\n"), 0o644))

	require.NoError(t, run(context.Background(), []string{"-config", cfgPath, "removebg", "-in", src, "-out", dst}))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	img, err := png.Decode(f)
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"resize"}},
		{name: "missing paths", args: []string{"removebg", "-in", "a.jpg"}},
		{name: "bad flag", args: []string{"optimize", "-nope"}},
		{name: "invalid tolerance", args: []string{"removebg", "-in", "a", "-out", "b", "-tolerance", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.args))
		})
	}
}
