package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	nhttp "github.com/chaos-io/logokit/util/http"
)

var (
	// ErrDecode marks a source that is missing, unreadable or not an image.
	ErrDecode = errors.New("decode image")
	// ErrWrite marks a destination that could not be written.
	ErrWrite = errors.New("write image")
)

// IsRemote reports whether src should be fetched over HTTP.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// LoadImage opens a local path or downloads an http(s) URL.
func LoadImage(ctx context.Context, src string) (image.Image, string, error) {
	if IsRemote(src) {
		return DownloadImage(ctx, nhttp.NewHTTPClient(), src)
	}
	return OpenImage(src)
}

// DownloadImage 下载图片
func DownloadImage(ctx context.Context, cli nhttp.IClient, url string) (image.Image, string, error) {
	var data []byte
	err := cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: url,
		Method:     "GET",
		Response:   &data,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: download %s: %w", ErrDecode, url, err)
	}

	return DecodeBytes(data)
}

// OpenImage 打开本地图片
func OpenImage(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() {
		_ = file.Close()
	}()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, format, nil
}

// DecodeBytes decodes an in-memory image using the registered decoders.
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty image data", ErrDecode)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, format, nil
}
