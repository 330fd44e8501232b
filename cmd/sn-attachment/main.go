// Command sn-attachment downloads one ITSM attachment, verifies it and
// prints the transfer report.
//
// Usage:
//
//	SN_HOST=dev12345.service-now.com SN_USERNAME=admin SN_PASSWORD=... \
//	    sn-attachment -id 0061f0c510247200964f77ffeec6c4de -dest /tmp/sn-attachment
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("sn-attachment", flag.ContinueOnError)
	flags.SetOutput(stderr)
	id := flags.String("id", "", "sys_id of the attachment to download")
	dest := flags.String("dest", "", "local file to write the attachment to")
	format := flags.String("format", formatJSON, "output format: json or table")
	envFile := flags.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *format != formatJSON && *format != formatTable {
		fmt.Fprintf(stderr, "unknown output format %q\n", *format)
		return 2
	}

	// A missing .env file is not an error; the environment may already be set.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "load %s: %v\n", *envFile, err)
		return 2
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := NewLogger(cfg.LogLevel)

	client, err := attachment.New(cfg.Options(logger)...)
	if err != nil {
		_ = writeFailure(stdout, *format, err)
		return 1
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := client.DownloadFile(ctx, *id, *dest)
	if err != nil {
		logger.Error("attachment download failed", "attachment_id", *id, "error", err)
		_ = writeFailure(stdout, *format, err)
		return 1
	}

	logger.Info("attachment downloaded",
		"attachment_id", *id,
		"path", *dest,
		"size", report.SizeBytes,
		"elapsed", report.ElapsedSeconds,
	)
	if err := writeReport(stdout, *format, report); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
