// Command catalog normalizes a catalog file into JSON and optionally
// publishes it to object storage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/catalog"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/config"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/storage"
	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

// publisher is the part of object storage the tool writes to
type publisher interface {
	Upload(ctx context.Context, objectName string, data []byte) error
	Bucket() string
}

type options struct {
	in         string
	format     string
	out        string
	publish    string
	configPath string
}

func main() {
	logger, err := logging.NewConsoleLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	var pub publisher
	if opts.publish != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			logger.Fatalf("Failed to load config: %v", err)
		}
		pub, err = storage.New(cfg.Storage)
		if err != nil {
			logger.Fatalf("Failed to initialize storage: %v", err)
		}
	}

	if err := run(context.Background(), opts, os.Stdout, pub, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.StringVar(&opts.in, "in", "", "catalog file to read (required)")
	fs.StringVar(&opts.format, "format", models.SourceFormatAuto, "input format: json, csv or auto")
	fs.StringVar(&opts.out, "out", "", "write normalized JSON here instead of stdout")
	fs.StringVar(&opts.publish, "publish", "", "object key to upload the normalized JSON to")
	fs.StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"), "config file with storage settings")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.in == "" {
		err := errors.New("missing -in")
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return opts, err
	}
	return opts, nil
}

func run(ctx context.Context, opts options, stdout io.Writer, pub publisher, logger *logging.Logger) error {
	raw, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	videos, err := catalog.Parse(opts.format, raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", opts.in, err)
	}

	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	data = append(data, '\n')

	switch {
	case opts.out != "":
		if err := os.WriteFile(opts.out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Infof("Wrote %d videos to %s", len(videos), opts.out)
	case opts.publish == "":
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if opts.publish != "" {
		if pub == nil {
			return errors.New("publishing requires object storage")
		}
		start := time.Now()
		err := pub.Upload(ctx, opts.publish, data)
		logger.LogStorageOperation("upload", pub.Bucket(), opts.publish, int64(len(data)), time.Since(start), err)
		if err != nil {
			return err
		}
	}

	return nil
}
