package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ochairo/wheelwright/internal/domain/services"
)

func newDetectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the detected platform and the repair command it selects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnvironment(cmd, opts)
			if err != nil {
				return err
			}

			platform := newPlatformDetector(env).Detect()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Platform: %s\n", platform.Name())

			// A placeholder wheel shows the argument layout without building
			placeholder := filepath.Join(env.config.OutputPath(), env.config.Project+"-<version>-<tags>.whl")
			plan, err := services.PlanRepair(platform, placeholder, env.config)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Repair tool: %s\n", plan.Tool)
			fmt.Fprintf(out, "Repair command: %s\n", plan.Command.String())
			if plan.RemoveOriginal {
				fmt.Fprintln(out, "The original wheel is removed after repair.")
			}
			return nil
		},
	}
}
