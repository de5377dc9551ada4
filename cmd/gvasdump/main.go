// gvasdump - GVAS save file inspector
//
// Usage:
//
//	gvasdump [options] save.sav
//
// Decodes a GVAS property stream and writes a JSON report, a markdown
// report, or both. Recoverable anomalies are listed in the report and
// logged; they do not fail the run. Only a fatal decode error exits
// nonzero.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gvaskit/gvas/gvas"
)

// listFlag collects repeatable, comma-separated string flags.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gvasdump: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("gvasdump", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), `gvasdump - GVAS save file inspector

Usage:
  gvasdump [options] save.sav

Options:
`)
		fs.PrintDefaults()
	}

	var include listFlag
	jsonOut := fs.String("o", "", "JSON report path ('-' for stdout)")
	mdOut := fs.String("m", "", "markdown report path ('-' for stdout)")
	jsonOnly := fs.Bool("json-only", false, "emit only the JSON report")
	mdOnly := fs.Bool("markdown-only", false, "emit only the markdown report")
	quiet := fs.Bool("q", false, "log errors only")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	mode := fs.String("mode", "terse", "materialization mode: terse or verbose")
	fs.Var(&include, "include", "property names to materialize in full even in terse mode (repeatable, comma-separated)")
	terseLimit := fs.Int("terse-limit", 0, "element count above which terse mode summarizes (0 = default)")
	maxDepth := fs.Int("max-depth", 0, "property nesting ceiling (0 = default)")
	decompress := fs.String("decompress", "none", "container compression: none, zlib, gzip, lz4, zstd")
	configPath := fs.String("config", "", "YAML config file (flags override it)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing save file argument")
	}
	input := fs.Arg(0)
	if *jsonOnly && *mdOnly {
		return errors.New("--json-only and --markdown-only are mutually exclusive")
	}

	logger, err := newLogger(*logLevel, *logFormat, *quiet)
	if err != nil {
		return err
	}

	opts := gvas.DefaultParseOptions()
	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		applyConfig(&opts, cfg)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["mode"] || *configPath == "" {
		switch *mode {
		case "terse":
			opts.Policy.Mode = gvas.Terse
		case "verbose":
			opts.Policy.Mode = gvas.Verbose
		default:
			return fmt.Errorf("invalid mode %q", *mode)
		}
	}
	if len(include) > 0 {
		opts.Policy.IncludeNames = include
	}
	if *terseLimit > 0 {
		opts.Policy.TerseLimit = *terseLimit
	}
	if *maxDepth > 0 {
		opts.MaxDepth = *maxDepth
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("file read", "path", input, "bytes", len(data))

	if *decompress != "none" {
		fn, err := chunkFunc(*decompress)
		if err != nil {
			return err
		}
		raw, err := gvas.Decompress(data, fn)
		if err != nil {
			return fmt.Errorf("decompress: %w", err)
		}
		logger.Debug("container unpacked", "compressed", len(data), "raw", len(raw))
		data = raw
	}

	res, parseErr := gvas.ParseWithOptions(data, opts)
	if parseErr != nil {
		logger.Error("decode aborted", "error", parseErr)
	}

	// Reports are still written on a fatal error: the partial document
	// is what there is to look at.
	if !*mdOnly {
		path := *jsonOut
		if path == "" {
			path = "-"
		}
		if err := writeOutput(path, gvas.EmitJSON(res)); err != nil {
			return err
		}
	}
	if !*jsonOnly && (*mdOnly || *mdOut != "") {
		path := *mdOut
		if path == "" {
			path = "-"
		}
		if err := writeOutput(path, gvas.EmitMarkdown(res)); err != nil {
			return err
		}
	}

	props := 0
	if res.Doc.Props != nil {
		props = res.Doc.Props.Len()
	}
	logger.Info("parse complete",
		"bytes", res.BytesParsed,
		"percent", fmt.Sprintf("%.1f", res.Doc.Stats.Percent),
		"properties", props,
		"anomalies", res.Diags.Len(),
	)
	for i, d := range res.Diags.All() {
		if i == 5 {
			logger.Warn("more anomalies omitted", "total", res.Diags.Len())
			break
		}
		logger.Warn("anomaly", "detail", d.String())
	}

	return parseErr
}

func newLogger(level, format string, quiet bool) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log-level %q", level)
	}
	if quiet {
		lvl = slog.LevelError
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	default:
		return nil, fmt.Errorf("invalid log-format %q", format)
	}
	return slog.New(handler), nil
}

func applyConfig(opts *gvas.ParseOptions, cfg *fileConfig) {
	switch cfg.Mode {
	case "terse":
		opts.Policy.Mode = gvas.Terse
	case "verbose":
		opts.Policy.Mode = gvas.Verbose
	}
	if len(cfg.Include) > 0 {
		opts.Policy.IncludeNames = cfg.Include
	}
	if cfg.TerseLimit > 0 {
		opts.Policy.TerseLimit = cfg.TerseLimit
	}
	if cfg.MaxDepth > 0 {
		opts.MaxDepth = cfg.MaxDepth
	}
}

func chunkFunc(name string) (gvas.DecompressFunc, error) {
	switch name {
	case "zlib":
		return gvas.ZlibChunk, nil
	case "gzip":
		return gvas.GzipChunk, nil
	case "lz4":
		return gvas.LZ4Chunk, nil
	case "zstd":
		return gvas.ZstdChunk, nil
	default:
		return nil, fmt.Errorf("invalid decompress %q", name)
	}
}

func writeOutput(path, content string) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
