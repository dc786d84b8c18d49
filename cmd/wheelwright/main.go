// Package main provides the wheelwright CLI for building redistributable Python wheels.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	configFile string
	workDir    string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to an exit status: 0 or 1
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "wheelwright",
		Short: "Build and repair a redistributable Python binary wheel",
		Long: `wheelwright cleans previous output, builds the wheel with the project's
setup.py, and bundles the shared libraries it needs with the platform's
repair tool (delocate-wheel, auditwheel or delvewheel).

Run without arguments to perform the whole build.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is wheelwright.yaml in the work dir)")
	root.PersistentFlags().StringVar(&opts.workDir, "work-dir", ".", "project directory containing setup.py")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug output")

	root.AddCommand(newDetectCmd(opts))
	root.AddCommand(newVerifyCmd())

	return root
}
