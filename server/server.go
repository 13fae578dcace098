// Package server exposes background removal and favicon rendering over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chaos-io/logokit/config"
	"github.com/chaos-io/logokit/favicon"
	"github.com/chaos-io/logokit/imaging"
	"github.com/chaos-io/logokit/rembg"
	"github.com/chaos-io/logokit/util"
)

const formFile = "image"

type Server struct {
	cfg    *config.Config
	engine *gin.Engine
}

func New(cfg *config.Config) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{cfg: cfg, engine: engine}
	engine.GET("/healthz", s.health)

	api := engine.Group("/api/v1")
	api.POST("/remove-background", s.removeBackground)
	api.POST("/favicon", s.favicon)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) removeBackground(c *gin.Context) {
	img, ok := s.readUpload(c)
	if !ok {
		return
	}

	opts := s.cfg.RemBGOptions()
	if raw := c.PostForm("tolerance"); raw != "" {
		tol, err := strconv.ParseFloat(raw, 64)
		if err != nil || tol < 0 {
			abort(c, http.StatusBadRequest, fmt.Errorf("invalid tolerance %q", raw))
			return
		}
		opts = append(opts, rembg.WithTolerance(tol))
	}

	out, err := rembg.NewColorKeyRemBG(opts...).Remove(c.Request.Context(), img)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, err)
		return
	}

	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, out); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) favicon(c *gin.Context) {
	img, ok := s.readUpload(c)
	if !ok {
		return
	}

	size := s.cfg.Favicon.ICOSize
	if raw := c.PostForm("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > favicon.MaxICOSize {
			abort(c, http.StatusBadRequest, fmt.Errorf("invalid size %q", raw))
			return
		}
		size = n
	}

	var buf bytes.Buffer
	if err := favicon.EncodeICO(&buf, imaging.Resize(img, size, size)); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/x-icon", buf.Bytes())
}

func (s *Server) readUpload(c *gin.Context) (image.Image, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxUploadBytes)

	fh, err := c.FormFile(formFile)
	if err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("missing %q file: %w", formFile, err))
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return nil, false
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return nil, false
	}

	img, _, err := util.DecodeBytes(data)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return nil, false
	}
	return img, true
}

func abort(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "err", c.Errors.String())
		}
		slog.Info("request", attrs...)
	}
}
