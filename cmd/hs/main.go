package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/healthscatter/internal/datasource"
	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/config"
	"github.com/vanderheijden86/healthscatter/pkg/debug"
	"github.com/vanderheijden86/healthscatter/pkg/export"
	"github.com/vanderheijden86/healthscatter/pkg/metrics"
	"github.com/vanderheijden86/healthscatter/pkg/model"
	_ "github.com/vanderheijden86/healthscatter/pkg/ttyguard"
	"github.com/vanderheijden86/healthscatter/pkg/ui"
	"github.com/vanderheijden86/healthscatter/pkg/version"
	"github.com/vanderheijden86/healthscatter/pkg/watcher"
)

// cliOptions mirrors the command line flags.
type cliOptions struct {
	dataPath     string
	x, y         string
	exportPath   string
	exportDir    string
	exportWizard bool
	robotScene   bool
	robotTooltip string
	noWatch      bool
	showMetrics  bool
}

func main() {
	var cli cliOptions
	flag.StringVar(&cli.dataPath, "data", "", "Dataset file (csv, sqlite or xlsx); defaults to data.csv discovery")
	flag.StringVar(&cli.x, "x", "", "Initial horizontal axis: poverty, age, income")
	flag.StringVar(&cli.y, "y", "", "Initial vertical axis: obesity, smokes, healthcare")
	flag.StringVar(&cli.exportPath, "export", "", "Write the chart to a file (.svg, .png or .html) and exit")
	flag.StringVar(&cli.exportDir, "export-dir", "", "Write every configured export format into a directory and exit")
	flag.BoolVar(&cli.exportWizard, "export-wizard", false, "Choose axes and formats interactively, then export")
	flag.BoolVar(&cli.robotScene, "robot-scene", false, "Print the current scene as JSON and exit")
	flag.StringVar(&cli.robotTooltip, "robot-tooltip", "", "Print the tooltip markup for a state id and exit")
	flag.BoolVar(&cli.noWatch, "no-watch", false, "Do not reload when the data file changes")
	flag.BoolVar(&cli.showMetrics, "metrics", false, "Print timing metrics to stderr on exit")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: hs [options]")
		fmt.Println("\nAn interactive scatter plot of US state health risks.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("hs %s\n", version.Version)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cli, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, cli cliOptions, stdout, stderr io.Writer) int {
	if cli.showMetrics {
		defer metrics.WriteSummary(stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	session, src, err := openSession(cli, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case cli.robotScene:
		err = writeRobotScene(stdout, session)
	case cli.robotTooltip != "":
		err = writeRobotTooltip(stdout, session, cli.robotTooltip)
	case cli.exportPath != "":
		err = exportFile(stdout, session, cli.exportPath)
	case cli.exportDir != "":
		err = exportDir(ctx, stdout, session, cli.exportDir, cfg.Export.Formats)
	case cli.exportWizard:
		err = runWizard(ctx, stdout, session, cfg)
	default:
		err = runTUI(ctx, session, src, cfg, !cli.noWatch && cfg.WatchEnabled())
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openSession loads the dataset and builds the chart session. Flags take
// precedence over the config file.
func openSession(cli cliOptions, cfg config.Config) (*chart.Session, datasource.DataSource, error) {
	opts, err := cfg.ChartOptions()
	if err != nil {
		return nil, datasource.DataSource{}, err
	}
	if cli.x != "" {
		if opts.DefaultX, err = model.ParseAxisColumn(model.AxisX, cli.x); err != nil {
			return nil, datasource.DataSource{}, fmt.Errorf("--x: %w", err)
		}
	}
	if cli.y != "" {
		if opts.DefaultY, err = model.ParseAxisColumn(model.AxisY, cli.y); err != nil {
			return nil, datasource.DataSource{}, fmt.Errorf("--y: %w", err)
		}
	}

	path := cli.dataPath
	if path == "" {
		path = cfg.Data.Path
	}
	start := time.Now()
	var (
		records []model.Record
		src     datasource.DataSource
	)
	if path != "" {
		records, src, err = datasource.LoadPath(path)
	} else {
		records, src, err = datasource.LoadRecords("")
	}
	if err != nil {
		return nil, src, fmt.Errorf("loading data: %w", err)
	}
	debug.LogTiming("load "+src.Path, time.Since(start))

	session, err := chart.NewSession(records, opts)
	if err != nil {
		return nil, src, err
	}
	return session, src, nil
}

func writeRobotScene(w io.Writer, session *chart.Session) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(session.Scene())
}

func writeRobotTooltip(w io.Writer, session *chart.Session, id string) error {
	tip, err := session.TooltipHTML(id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tip)
	return err
}

func exportFile(w io.Writer, session *chart.Session, path string) error {
	out := path
	switch export.InferFormat(path) {
	case export.FormatHTML:
		opts := session.Options()
		var err error
		out, err = export.GenerateInteractiveHTML(export.InteractiveOptions{
			Path:       path,
			Records:    session.Records(),
			Layout:     opts.Layout,
			Style:      opts.Style,
			Transition: opts.TransitionDuration,
			InitialX:   session.ActiveX(),
			InitialY:   session.ActiveY(),
		})
		if err != nil {
			return err
		}
	default:
		if err := export.SaveSnapshot(export.SnapshotOptions{Path: path, Scene: session.Scene()}); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "Wrote %s\n", out)
	return nil
}

func exportDir(ctx context.Context, w io.Writer, session *chart.Session, dir string, names []string) error {
	formats, err := export.ParseFormats(names)
	if err != nil {
		return err
	}
	paths, err := export.ExportAll(ctx, export.AllOptions{Dir: dir, Formats: formats, Session: session})
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(w, "Wrote %s\n", p)
	}
	return nil
}

func runWizard(ctx context.Context, w io.Writer, session *chart.Session, cfg config.Config) error {
	wiz := export.NewWizard(session.ActiveX(), session.ActiveY(), cfg.Export.Formats, cfg.Export.Dir)
	choices, err := wiz.Run()
	if err != nil {
		return err
	}
	x, y, formats, err := choices.Validate()
	if err != nil {
		return err
	}
	if _, err := session.Select(x); err != nil {
		return err
	}
	if _, err := session.Select(y); err != nil {
		return err
	}
	paths, err := export.ExportAll(ctx, export.AllOptions{
		Dir:      choices.Dir,
		BaseName: choices.BaseName,
		Formats:  formats,
		Session:  session,
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(w, "Wrote %s\n", p)
	}
	return nil
}

// autoCloseEnvVar quits the TUI after the given number of milliseconds;
// used by automated runs.
const autoCloseEnvVar = "HS_TUI_AUTOCLOSE_MS"

func runTUI(ctx context.Context, session *chart.Session, src datasource.DataSource, cfg config.Config, watch bool) error {
	if v := os.Getenv(autoCloseEnvVar); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
			defer cancel()
		}
	}

	opts := ui.Options{
		FPS:        cfg.UI.FPS,
		ShowLabels: cfg.LabelsVisible(),
		Source:     src.Path,
	}
	if src.Path != "" {
		path := src.Path
		opts.Loader = func() ([]model.Record, error) {
			records, _, err := datasource.LoadPath(path)
			return records, err
		}
		if watch {
			if w, err := startWatcher(ctx, path); err != nil {
				debug.Log("watch %s: %v", path, err)
			} else {
				defer w.Stop()
				opts.Watcher = w
			}
		}
	}

	err := ui.Run(ctx, session, opts)
	// Cancellation is how the program is asked to stop.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func startWatcher(ctx context.Context, path string) (*watcher.Watcher, error) {
	w, err := watcher.New(path)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
