package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Delete1994/PDF-Compare/config"
	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/comparator"
	"github.com/Delete1994/PDF-Compare/internal/document"
	"github.com/Delete1994/PDF-Compare/internal/history"
	"github.com/Delete1994/PDF-Compare/internal/orchestrator"
	"github.com/Delete1994/PDF-Compare/internal/render"
	"github.com/Delete1994/PDF-Compare/internal/report"
	"github.com/Delete1994/PDF-Compare/internal/result"
	"github.com/Delete1994/PDF-Compare/internal/structure"
	"github.com/Delete1994/PDF-Compare/internal/textdiff"
	"github.com/Delete1994/PDF-Compare/pkg/env"
	"github.com/Delete1994/PDF-Compare/pkg/logging"
)

const (
	exitIdentical = 0
	exitError     = 1
	exitDifferent = 2
)

func main() {
	env.LoadEnv()

	app := &cli.App{
		Name:      "pdfcompare",
		Usage:     "Compare two PDF files by text, appearance, structure and metadata",
		ArgsUsage: "<left.pdf> <right.pdf>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "methods", Aliases: []string{"m"}, Usage: "comparison methods: text, visual, structure, metadata"},
			&cli.BoolFlag{Name: "all", Usage: "run every available method"},
			&cli.BoolFlag{Name: "detailed", Usage: "list difference positions in the console report"},
			&cli.StringFlag{Name: "html", Usage: "write an HTML report to `FILE`"},
			&cli.StringFlag{Name: "json", Usage: "write a JSON report to `FILE`"},
			&cli.IntFlag{Name: "dpi", Usage: "render resolution for visual comparison"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only print the report"},
			&cli.BoolFlag{Name: "debug", Usage: "verbose logging"},
			&cli.StringFlag{Name: "config", Usage: "directory containing pdfcompare.yaml", Value: env.GetEnv("PDFCOMPARE_CONFIG", "")},
			&cli.BoolFlag{Name: "record", Usage: "store the report in the local history"},
		},
		Before: setup,
		Action: compare,
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "List recorded comparisons, or print one with its id",
				Action: func(c *cli.Context) error {
					return showHistory(c.App.Writer, c.Args().First())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitError)
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	logging.InitLogger(cfg.Debug, c.Bool("quiet"), cfg.LogFile)
	return nil
}

func compare(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("expected exactly two PDF files", exitError)
	}
	left, right := c.Args().Get(0), c.Args().Get(1)
	cfg := config.Config
	log := logging.Log
	if c.IsSet("dpi") {
		cfg.DPI = c.Int("dpi")
		if err := cfg.Validate(); err != nil {
			return cli.Exit(err.Error(), exitError)
		}
	}

	caps, err := detect(c.Context, cfg, log)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	requested, err := methods(c, cfg, caps)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	orch := newOrchestrator(cfg, caps, log)
	var bar *progress
	if !c.Bool("quiet") {
		bar = newProgress(len(orch.Select(requested)))
		orch.SetObserver(bar)
	}

	rep, err := orch.Compare(c.Context, left, right, requested)
	if bar != nil {
		bar.Close()
	}
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	if err := report.WriteConsole(c.App.Writer, rep, c.Bool("detailed")); err != nil {
		return err
	}
	if path := c.String("html"); path != "" {
		if err := writeFile(path, func(w io.Writer) error { return report.WriteHTML(w, rep) }); err != nil {
			return cli.Exit(err.Error(), exitError)
		}
		log.WithField("path", path).Info("html report written")
	}
	if path := c.String("json"); path != "" {
		if err := writeFile(path, func(w io.Writer) error { return report.WriteJSON(w, rep) }); err != nil {
			return cli.Exit(err.Error(), exitError)
		}
		log.WithField("path", path).Info("json report written")
	}
	if c.Bool("record") {
		if err := record(cfg, rep); err != nil {
			log.WithError(err).Warn("failed to record report")
		}
	}

	if rep.Summary.OverallIdentical {
		return nil
	}
	return cli.Exit("", exitDifferent)
}

func detect(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (capability.Snapshot, error) {
	caps := capability.Detect(ctx, cfg.ProbeTimeout, log,
		capability.StaticProber{Cap: capability.Text, OK: true},
		capability.StaticProber{Cap: capability.Structure, OK: true},
		capability.StaticProber{Cap: capability.Metadata, OK: true},
		capability.RendererProber(cfg.RendererBin),
	)
	var disabled []capability.Capability
	for _, name := range cfg.DisabledCapabilities {
		capab, err := capability.Parse(name)
		if err != nil {
			return capability.Snapshot{}, err
		}
		disabled = append(disabled, capab)
	}
	caps = caps.Without(disabled...)
	log.WithField("capabilities", caps.String()).Debug("capabilities detected")
	return caps, nil
}

// methods resolves the requested methods. -m wins over --all; without either only the text
// comparison runs when it is available. nil means every available method.
func methods(c *cli.Context, cfg *config.AppConfig, caps capability.Registry) ([]result.Method, error) {
	names := c.StringSlice("methods")
	if len(names) == 0 && c.Bool("all") {
		return nil, nil
	}
	if len(names) == 0 {
		names = cfg.DefaultMethods
	}
	if len(names) == 0 {
		if caps.Available(capability.Text) {
			return []result.Method{result.Text}, nil
		}
		return nil, nil
	}
	out := make([]result.Method, 0, len(names))
	for _, name := range names {
		m, err := result.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func newOrchestrator(cfg *config.AppConfig, caps capability.Registry, log *logrus.Logger) *orchestrator.Orchestrator {
	docs := document.NewPDFBackend()
	opts := textdiff.DefaultOptions()
	opts.Detailed = cfg.Detailed
	opts.ContextLines = cfg.ContextLines
	opts.PreviewLines = cfg.PreviewLines

	return orchestrator.New(caps, log,
		&comparator.BasicInfo{Pages: docs, Log: log},
		&comparator.Text{Docs: docs, Options: opts, Log: log},
		&comparator.Visual{Renderer: render.NewPoppler(cfg.RendererBin, log), DPI: cfg.DPI, Threshold: cfg.VisualThreshold, Log: log},
		&comparator.Structure{Tables: structure.NewGridDetector(), Log: log},
		&comparator.Metadata{Docs: docs, Log: log},
	)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func historyPath(cfg *config.AppConfig) (string, error) {
	if cfg.HistoryPath != "" {
		return cfg.HistoryPath, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("no history_path configured: %w", err)
	}
	return filepath.Join(dir, "pdfcompare", "history"), nil
}

func record(cfg *config.AppConfig, rep *result.Report) error {
	path, err := historyPath(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Put(rep); err != nil {
		return err
	}
	logging.Log.WithField("id", rep.ID).Info("report recorded")
	return nil
}

func showHistory(w io.Writer, id string) error {
	path, err := historyPath(config.Config)
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if id != "" {
		rec, err := store.Get(id)
		if errors.Is(err, history.ErrNotFound) {
			return cli.Exit(err.Error(), exitError)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", rec.Report)
		return err
	}

	recs, err := store.List()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		verdict := "different"
		if rec.Summary.OverallIdentical {
			verdict = "identical"
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %-9s %d/%d  %s vs %s\n",
			rec.ID, rec.Timestamp.Format("2006-01-02 15:04:05"), verdict,
			rec.Summary.ChecksPassed, rec.Summary.ChecksTotal, rec.Left, rec.Right); err != nil {
			return err
		}
	}
	return nil
}
