package cli

import (
	goerrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fantasytools/ranksheet/pkg/analytics"
	"github.com/fantasytools/ranksheet/pkg/consensus"
	"github.com/fantasytools/ranksheet/pkg/errors"
	"github.com/fantasytools/ranksheet/pkg/model"
	"github.com/fantasytools/ranksheet/pkg/providers"
	"github.com/fantasytools/ranksheet/pkg/render"
	"github.com/fantasytools/ranksheet/pkg/table"
)

// newCompareCmd creates the compare command: fetch several sources and
// write a consensus sheet.
func newCompareCmd() *cobra.Command {
	flags := &exportFlags{}
	var sources string
	var tiers, vorp bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Aggregate several sources into a consensus cheat sheet",
		Long: `Compare fetches rankings from multiple sources, merges them into a
consensus ordered by mean rank, and writes the result as a PDF or CSV.
Optional analytics columns mark tier breaks and value over replacement.`,
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

			names := splitList(sources)
			if len(names) < 2 {
				return errors.New(errors.ErrCodeInvalidInput, "compare needs at least 2 sources, got %d", len(names))
			}

			a, err := newApp(ctx, flags.configPath, flags.noCache)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := flags.options(a.cfg.CacheTTL())
			prog := newProgress(logger)
			var inputs []consensus.Source
			for _, name := range names {
				p, perr := a.provider(name, logger.Debugf)
				if perr != nil {
					return perr
				}

				spin := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s...", p.Name()))
				spin.Start()
				rows, ferr := p.Fetch(ctx, scoring, opts)
				spin.Stop()
				if ferr != nil {
					if goerrors.Is(ferr, providers.ErrNotImplemented) {
						printWarning("%s is not implemented yet, skipping", p.Name())
						continue
					}
					return ferr
				}
				printStats(p.Name(), len(rows), false)
				inputs = append(inputs, consensus.Source{Name: p.Name(), Table: table.FromRanks(rows)})
			}
			if len(inputs) < 2 {
				return errors.New(errors.ErrCodeInvalidInput,
					"consensus needs at least 2 usable sources, got %d", len(inputs))
			}

			t, err := consensus.Build(inputs)
			if err != nil {
				return err
			}
			if tiers {
				t = analytics.AddTiers(t)
			}
			if vorp {
				t = analytics.AddVORP(t, nil)
			}
			prog.done(fmt.Sprintf("Built consensus from %d sources (%d players)", len(inputs), t.Len()))

			if flags.raw {
				return table.WriteCSV(os.Stdout, t)
			}
			if flags.preview {
				printPreview(t, 20)
			}

			title := flags.title
			if title == "" {
				title = "Consensus Rankings"
			}
			srcNames := make([]string, len(inputs))
			for i, s := range inputs {
				srcNames[i] = s.Name
			}
			rctx := render.Context{
				Title:   title,
				Source:  strings.Join(srcNames, ", "),
				URL:     "https://github.com/fantasytools/ranksheet",
				Scoring: scoring,
				Date:    time.Now(),
				Theme:   theme,
			}

			out := flags.out
			if out == "" {
				out = defaultOutputName("consensus", string(scoring), format)
			}
			if err := writeArtifact(out, format, t, rctx, render.Consensus); err != nil {
				return err
			}

			printSuccess("Wrote consensus sheet")
			printFile(out)
			if flags.open {
				openFile(out, logger)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sources, "sources", "espn,sleeper", "comma-separated sources to aggregate")
	cmd.Flags().BoolVar(&tiers, "tiers", false, "add tier-break column")
	cmd.Flags().BoolVar(&vorp, "vorp", false, "add value-over-replacement columns")
	flags.register(cmd, 200)
	return cmd
}
