package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/providers"
	"github.com/fantasytools/ranksheet/pkg/render"
	"github.com/fantasytools/ranksheet/pkg/table"
)

// exportFlags collects the flags shared by export and compare.
type exportFlags struct {
	configPath  string
	scoring     string
	out         string
	format      string
	style       string
	positions   string
	only        string
	title       string
	limit       int
	season      int
	noBye       bool
	excludeDefK bool
	raw         bool
	noCache     bool
	refresh     bool
	preview     bool
	open        bool
}

func (f *exportFlags) register(cmd *cobra.Command, defaultLimit int) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file path (default ~/.config/ranksheet/config.toml)")
	cmd.Flags().StringVarP(&f.scoring, "scoring", "s", "ppr", "scoring format: ppr, half, standard")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file path")
	cmd.Flags().StringVarP(&f.format, "format", "f", "pdf", "output format: pdf, csv")
	cmd.Flags().StringVar(&f.style, "style", "light", "PDF style: light, dark")
	cmd.Flags().StringVarP(&f.positions, "positions", "p", "", "comma-separated position filter (e.g. RB,WR)")
	cmd.Flags().StringVar(&f.only, "only", "", "single-position shorthand for --positions")
	cmd.Flags().StringVar(&f.title, "title", "", "sheet title (defaults to the source name)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", defaultLimit, "maximum number of rows (0 = all)")
	cmd.Flags().IntVar(&f.season, "season", 0, "season year (0 = current)")
	cmd.Flags().BoolVar(&f.noBye, "no-bye", false, "omit the bye-week column")
	cmd.Flags().BoolVar(&f.excludeDefK, "exclude-def-k", false, "drop defenses and kickers")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "write all source columns as CSV to stdout")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached responses and refetch")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "print a table preview to the terminal")
	cmd.Flags().BoolVar(&f.open, "open", false, "open the generated file")
}

func (f *exportFlags) options(ttl time.Duration) providers.Options {
	positions := splitList(f.positions)
	positions = append(positions, splitList(f.only)...)
	return providers.Options{
		Positions:   positions,
		Limit:       f.limit,
		Season:      f.season,
		ExcludeDefK: f.excludeDefK,
		Refresh:     f.refresh,
		CacheTTL:    ttl,
	}
}

func parseFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case "pdf", "csv":
		return strings.ToLower(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want pdf or csv)", s)
	}
}

// newExportCmd creates the export command: fetch one source and write a
// cheat sheet.
func newExportCmd() *cobra.Command {
	flags := &exportFlags{}
	var source string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch rankings from one source and write a cheat sheet",
		Long: `Export fetches player rankings from a single source and writes them as a
PDF cheat sheet or CSV file. Responses are cached; use --refresh to force a
refetch or --no-cache to disable caching entirely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			scoring, err := model.ParseScoring(flags.scoring)
			if err != nil {
				return err
			}
			theme, err := render.ParseTheme(flags.style)
			if err != nil {
				return err
			}
			format, err := parseFormat(flags.format)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, flags.configPath, flags.noCache)
			if err != nil {
				return err
			}
			defer a.Close()

			if interactive {
				picked, ok, perr := pickSource(sourceNames)
				if perr != nil {
					return perr
				}
				if !ok {
					printInfo("No source selected")
					return nil
				}
				source = picked
			}

			p, err := a.provider(source, logger.Debugf)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			spin := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s rankings...", p.Name()))
			spin.Start()
			rows, err := p.Fetch(ctx, scoring, flags.options(a.cfg.CacheTTL()))
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched %d rows from %s", len(rows), p.Name()))
			if len(rows) == 0 {
				printWarning("%s returned no rows, writing an empty sheet", p.Name())
			}

			t := table.FromRanks(rows)
			if flags.raw {
				return table.WriteCSV(os.Stdout, t)
			}
			t, err = table.EnsureColumns(t, !flags.noBye)
			if err != nil {
				return err
			}

			if flags.preview {
				printPreview(t, 20)
			}

			title := flags.title
			if title == "" {
				title = fmt.Sprintf("%s Rankings", strings.ToUpper(source[:1])+source[1:])
			}
			rctx := render.Context{
				Title:   title,
				Source:  p.Name(),
				URL:     p.Homepage(),
				Scoring: scoring,
				Date:    time.Now(),
				Theme:   theme,
			}

			out := flags.out
			if out == "" {
				out = defaultOutputName(source, string(scoring), format)
			}
			if err := writeArtifact(out, format, t, rctx, render.Rankings); err != nil {
				return err
			}

			printSuccess("Wrote %s sheet", source)
			printFile(out)
			if flags.open {
				openFile(out, logger)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "espn", "ranking source: "+strings.Join(sourceNames, ", "))
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the source interactively")
	flags.register(cmd, 300)
	return cmd
}

// writeArtifact writes the table as CSV or hands it to the PDF renderer.
func writeArtifact(path, format string, t table.Table, rctx render.Context, pdfFn func(w io.Writer, t table.Table, ctx render.Context) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to create output file: %s", path)
	}
	defer f.Close()

	if format == "csv" {
		return table.WriteCSV(f, t)
	}
	return pdfFn(f, t, rctx)
}

// openFile launches the platform file opener, best effort.
func openFile(path string, logger interface{ Warnf(string, ...any) }) {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	if err := exec.Command(opener, path).Start(); err != nil {
		logger.Warnf("could not open %s: %v", path, err)
	}
}
