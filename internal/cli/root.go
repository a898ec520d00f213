package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. The main
// package calls this with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the ranksheet CLI and returns an error if any command fails.
//
// Logging defaults to info level on stderr; --verbose (-v) raises it to
// debug. The logger is attached to the context and accessible to all
// commands via loggerFromContext. Running with no subcommand is equivalent
// to running export.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "ranksheet",
		Short:        "ranksheet turns fantasy-football rankings into draft cheat sheets",
		Long:         `ranksheet fetches player rankings from editorial pages and public APIs, aggregates them into a consensus, and renders printable PDF or CSV cheat sheets.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("ranksheet %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newExportCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newCacheCmd())

	// Bare invocations run export with its defaults.
	if cmd, _, err := root.Find(os.Args[1:]); err == nil && cmd == root && !wantsRootHandling(os.Args[1:]) {
		root.SetArgs(append([]string{"export"}, os.Args[1:]...))
	}

	return root.ExecuteContext(ctx)
}

// wantsRootHandling keeps help, version, and completion requests on the
// root command instead of forwarding them to export.
func wantsRootHandling(args []string) bool {
	for _, a := range args {
		switch a {
		case "-h", "--help", "--version", "help", "completion":
			return true
		}
	}
	return false
}
