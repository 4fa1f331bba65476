// Command pdftext uploads PDF files to a parse server and prints their text.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/pdf-parse/backend/internal/client"
	"github.com/pdf-parse/backend/internal/logger"
	"github.com/pdf-parse/backend/internal/models"
	"github.com/pdf-parse/backend/internal/uploader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("pdftext", flag.ContinueOnError)
	server := fs.String("server", envOr("PDFPARSE_SERVER", "http://localhost:8089"), "parse server base URL")
	batch := fs.Bool("batch", false, "send all files in a single request")
	useMsgpack := fs.Bool("msgpack", false, "request msgpack-encoded batch responses")
	level := fs.String("log-level", "warn", "log level")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: pdftext [flags] file.pdf...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	if err := logger.Init(*level, true); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		return 2
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var opts []client.Option
	if *useMsgpack {
		opts = append(opts, client.WithMsgpack())
	}
	c := client.New(*server, opts...)

	files := make([]*uploader.File, 0, fs.NArg())
	for _, path := range fs.Args() {
		f, err := uploader.FileFromPath(path)
		if err != nil {
			log.Error("skipping file", zap.String("path", path), zap.Error(err))
			continue
		}
		files = append(files, f)
	}

	if *batch {
		return runBatch(ctx, c, files, stdout, log)
	}

	results := uploader.NewResults()
	u := uploader.New(c.Upload, append(results.Options(), uploader.WithNotifier(uploader.LogNotifier{Logger: log}))...)

	succeeded := u.AcceptDrop(ctx, files)
	for _, entry := range results.Entries() {
		printEntry(stdout, entry.Name, entry.Text)
	}

	if succeeded != len(files) || len(files) != fs.NArg() {
		return 1
	}
	return 0
}

func runBatch(ctx context.Context, c *client.Client, files []*uploader.File, stdout io.Writer, log *zap.Logger) int {
	parts := make([]client.Part, 0, len(files))
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			log.Error("opening file", zap.String("file", f.Name), zap.Error(err))
			return 1
		}
		defer rc.Close()
		parts = append(parts, client.Part{Name: f.Name, Body: rc})
	}

	results, err := c.ParseBatch(ctx, parts)
	if err != nil {
		log.Error("batch upload failed", zap.Error(err))
		return 1
	}

	printResults(stdout, results)
	return 0
}

func printResults(w io.Writer, results []models.ParsedResult) {
	for _, r := range results {
		printEntry(w, r.OriginalName, r.Text)
	}
}

func printEntry(w io.Writer, name, text string) {
	fmt.Fprintf(w, "== %s ==\n%s\n\n", name, text)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
