// Command biblook answers boolean keyword queries against a .bix sidecar
// built by bibindex, printing matching BibTeX records verbatim from the
// original source file.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/biblook/go-biblook/internal/metrics"
	"github.com/biblook/go-biblook/internal/query"
	"github.com/biblook/go-biblook/internal/session"
	"github.com/biblook/go-biblook/internal/sidecar"
)

func main() {
	app := &cli.App{
		Name:      "biblook",
		Usage:     "answer boolean keyword queries against a .bix sidecar",
		ArgsUsage: "<stem> [<savefile>]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cache-size", Usage: "posting cache capacity (0 selects the default)"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "expose Prometheus metrics on host:port"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		var fatal *session.FatalError
		if asFatal(err, &fatal) {
			klog.Errorf("biblook: %v", fatal)
			os.Exit(1)
		}
		klog.Errorf("biblook: %v", err)
		os.Exit(1)
	}
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
		return cli.Exit("usage: biblook <stem> [<savefile>]", 1)
	}
	stem := strings.TrimSuffix(c.Args().First(), ".bib")

	reg := metrics.New()
	if addr := c.String("metrics-addr"); addr != "" {
		serveMetrics(addr, reg)
	}
	sess := session.New("biblook", reg)

	bibPath, bixPath, err := resolveStem(stem)
	if err != nil {
		return session.Fatal("resolving %q: %w", stem, err)
	}
	if err := checkFreshness(bibPath, bixPath); err != nil {
		return err
	}

	bibFile, err := os.Open(bibPath)
	if err != nil {
		return session.Fatal("opening %s: %w", bibPath, err)
	}
	defer bibFile.Close()

	bixFile, err := os.Open(bixPath)
	if err != nil {
		return session.Fatal("opening %s: %w", bixPath, err)
	}
	defer bixFile.Close()

	sc, err := sidecar.Load(bixFile)
	if err != nil {
		return session.Fatal("loading %s: %w", bixPath, err)
	}
	sess.Info("loaded %s: %d entries, %d fields, %d abbreviations", bixPath, len(sc.EntryOffsets), len(sc.Fields), len(sc.Abbrevs))

	idx := query.Open(sc, sc.Fields, sc.EntryOffsets, sc.Abbrevs, bibFile, c.Int("cache-size"), reg)
	sh := query.NewShell(idx, query.NewWriterSink(os.Stdout))
	if c.NArg() >= 2 {
		sh.SetDefaultSaveFile(c.Args().Get(1))
	}

	if err := sh.Run(os.Stdin); err != nil {
		return session.Fatal("reading commands: %w", err)
	}
	return nil
}

// resolveStem finds stem.bib and stem.bix, first trying stem as given
// (relative to the current directory, or absolute), then scanning
// BIBLOOKPATH and BIBINPUTS (colon-separated directory lists) in order.
func resolveStem(stem string) (bibPath, bixPath string, err error) {
	if fileExists(stem + ".bib") {
		return stem + ".bib", stem + ".bix", nil
	}
	for _, envVar := range []string{"BIBLOOKPATH", "BIBINPUTS"} {
		for _, dir := range splitPathList(os.Getenv(envVar)) {
			candidate := joinPath(dir, stem)
			if fileExists(candidate + ".bib") {
				return candidate + ".bib", candidate + ".bix", nil
			}
		}
	}
	return "", "", fmt.Errorf("%s.bib not found in BIBLOOKPATH, BIBINPUTS, or current directory", stem)
}

func splitPathList(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ":")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinPath(dir, stem string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + stem
	}
	return dir + "/" + stem
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// checkFreshness enforces that the sidecar is at least as new as the
// source it was built from, refusing to serve a stale index.
func checkFreshness(bibPath, bixPath string) error {
	bibInfo, err := os.Stat(bibPath)
	if err != nil {
		return session.Fatal("stat %s: %w", bibPath, err)
	}
	bixInfo, err := os.Stat(bixPath)
	if err != nil {
		return session.Fatal("stat %s: %w (run bibindex first)", bixPath, err)
	}
	if bixInfo.ModTime().Before(bibInfo.ModTime()) {
		return session.Fatal("%s is older than %s; re-run bibindex", bixPath, bibPath)
	}
	return nil
}

func serveMetrics(addr string, reg *metrics.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			klog.Warningf("biblook: metrics server: %v", err)
		}
	}()
}
