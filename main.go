package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaos-io/logokit/config"
	"github.com/chaos-io/logokit/favicon"
	"github.com/chaos-io/logokit/optimize"
	"github.com/chaos-io/logokit/rembg"
	"github.com/chaos-io/logokit/server"
	"github.com/chaos-io/logokit/util"
)

const usage = `usage: logokit [-config file] [-v] <command> [flags]

commands:
  removebg  -in <image> -out <png> [-tolerance 30] [-sample-x 0] [-sample-y 0]
  favicon   -in <image> -out <dir> [-ico-size 32] [-png-size 192]
  optimize  -dir <dir> [-max-width 1920] [-quality 85] [-schedule "@every 1h"]
  serve     [-addr :8080]
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("logokit failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	global := flag.NewFlagSet("logokit", flag.ContinueOnError)
	configPath := global.String("config", "", "YAML config file")
	verbose := global.Bool("v", false, "debug logging")
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	rest := global.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, cmdArgs := rest[0], rest[1:]
	defer util.Trace(cmd)()

	switch cmd {
	case "removebg":
		return runRemoveBG(ctx, cfg, cmdArgs)
	case "favicon":
		return runFavicon(ctx, cfg, cmdArgs)
	case "optimize":
		return runOptimize(ctx, cfg, cmdArgs)
	case "serve":
		return runServe(ctx, cfg, cmdArgs)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func runRemoveBG(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("removebg", flag.ContinueOnError)
	in := fs.String("in", "", "source image path or URL")
	out := fs.String("out", "", "destination PNG path")
	fs.Float64Var(&cfg.RemBG.Tolerance, "tolerance", cfg.RemBG.Tolerance, "RGB distance treated as background")
	fs.IntVar(&cfg.RemBG.SampleX, "sample-x", cfg.RemBG.SampleX, "background sample column")
	fs.IntVar(&cfg.RemBG.SampleY, "sample-y", cfg.RemBG.SampleY, "background sample row")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("%w: removebg needs -in and -out", errUsage)
	}

	return rembg.RemoveFile(ctx, rembg.NewColorKeyRemBG(cfg.RemBGOptions()...), *in, *out)
}

func runFavicon(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("favicon", flag.ContinueOnError)
	in := fs.String("in", "", "source logo path or URL")
	out := fs.String("out", "", "output directory")
	fs.IntVar(&cfg.Favicon.ICOSize, "ico-size", cfg.Favicon.ICOSize, "ICO edge in pixels")
	fs.IntVar(&cfg.Favicon.PNGSize, "png-size", cfg.Favicon.PNGSize, "PNG edge in pixels")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("%w: favicon needs -in and -out", errUsage)
	}

	_, err := favicon.GenerateFile(ctx, *in, *out, cfg.FaviconOptions())
	return err
}

func runOptimize(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	dir := fs.String("dir", "", "directory to optimize in place")
	fs.IntVar(&cfg.Optimize.MaxWidth, "max-width", cfg.Optimize.MaxWidth, "downscale wider images to this width")
	fs.IntVar(&cfg.Optimize.JPEGQuality, "quality", cfg.Optimize.JPEGQuality, "JPEG quality")
	fs.StringVar(&cfg.Optimize.Schedule, "schedule", cfg.Optimize.Schedule, "cron spec; run once when empty")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("%w: optimize needs -dir", errUsage)
	}

	o, err := optimize.NewOptimizer(cfg.OptimizeOptions())
	if err != nil {
		return err
	}

	if cfg.Optimize.Schedule == "" {
		report, err := o.Run(ctx, *dir)
		if err != nil {
			return err
		}
		slog.Info("optimize finished", "optimized", len(report.Optimized),
			"resized", len(report.Resized), "failed", len(report.Failed))
		return nil
	}

	s, err := optimize.NewScheduler(o, *dir, cfg.Optimize.Schedule)
	if err != nil {
		return err
	}
	s.Start()
	slog.Info("optimize scheduled", "dir", *dir, "schedule", cfg.Optimize.Schedule)

	<-ctx.Done()
	<-s.Stop().Done()
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")
	if err := parse(fs, cfg, args); err != nil {
		return err
	}

	return server.New(cfg).Run(ctx)
}

// parse re-validates cfg since flags may have overridden file values.
func parse(fs *flag.FlagSet, cfg *config.Config, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return cfg.Validate()
}
