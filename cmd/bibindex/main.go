// Command bibindex builds a binary .bix sidecar for a BibTeX file, ready
// to be served by biblook without re-parsing the source on every query.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/biblook/go-biblook/internal/indexer"
	"github.com/biblook/go-biblook/internal/metrics"
	"github.com/biblook/go-biblook/internal/session"
	"github.com/biblook/go-biblook/internal/sidecar"
)

func main() {
	app := &cli.App{
		Name:      "bibindex",
		Usage:     "build a .bix sidecar index for a BibTeX file",
		ArgsUsage: "<stem>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "i", Usage: "field name to ignore (repeatable)"},
			&cli.BoolFlag{Name: "watch", Usage: "re-index on every change to the source file"},
			&cli.BoolFlag{Name: "with-journal-abbrevs", Usage: "seed built-in journal-name abbreviations"},
			&cli.BoolFlag{Name: "with-prefilter", Usage: "build the xxhash existence prefilter section"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "expose Prometheus metrics on host:port"},
		},
		Action: run,
	}

	args := prependEnvFlags(os.Args)
	if err := app.Run(args); err != nil {
		var fatal *session.FatalError
		if asFatal(err, &fatal) {
			klog.Errorf("bibindex: %v", fatal)
			os.Exit(1)
		}
		klog.Errorf("bibindex: %v", err)
		os.Exit(1)
	}
}

// prependEnvFlags splices whitespace-split BIBINDEXFLAGS in right after the
// program name, giving the environment variable the same effect as typing
// those flags first on the command line.
func prependEnvFlags(args []string) []string {
	extra := strings.Fields(os.Getenv("BIBINDEXFLAGS"))
	if len(extra) == 0 {
		return args
	}
	out := make([]string, 0, len(args)+len(extra))
	out = append(out, args[0])
	out = append(out, extra...)
	out = append(out, args[1:]...)
	return out
}

func asFatal(err error, target **session.FatalError) bool {
	for err != nil {
		if f, ok := err.(*session.FatalError); ok {
			*target = f
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: bibindex <stem>", 1)
	}
	stem := strings.TrimSuffix(c.Args().First(), ".bib")
	bibPath := stem + ".bib"
	bixPath := stem + ".bix"

	reg := metrics.New()
	if addr := c.String("metrics-addr"); addr != "" {
		serveMetrics(addr, reg)
	}
	sess := session.New("bibindex", reg)

	opts := indexer.Options{
		IgnoreFields:       c.StringSlice("i"),
		WithJournalAbbrevs: c.Bool("with-journal-abbrevs"),
		WithPrefilter:      c.Bool("with-prefilter"),
	}

	write := func(res *indexer.Result, summary string) error {
		out, err := os.Create(bixPath)
		if err != nil {
			return &session.FatalError{Err: err}
		}
		defer out.Close()
		if err := sidecar.Write(out, res, nowUnix()); err != nil {
			return &session.FatalError{Err: err}
		}
		fmt.Println(summary)
		if sess.Warnings() > 0 {
			fmt.Printf("warning: %d warnings were recorded; the sidecar may still be usable\n", sess.Warnings())
		}
		return nil
	}

	if c.Bool("watch") {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return indexer.WatchAndReindex(ctx, bibPath, opts, sess, func(res *indexer.Result, summary string) {
			if err := write(res, summary); err != nil {
				klog.Errorf("bibindex: %v", err)
			}
		})
	}

	res, summary, err := indexer.RunFile(bibPath, opts, sess)
	if err != nil {
		return err
	}
	return write(res, summary)
}

func nowUnix() int64 { return time.Now().Unix() }

func serveMetrics(addr string, reg *metrics.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			klog.Warningf("bibindex: metrics server: %v", err)
		}
	}()
}
