package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/agentic-research/sdfpack/internal/ingest"
	"github.com/agentic-research/sdfpack/internal/linter"
	"github.com/spf13/cobra"
)

var ErrLint = errors.New("scene has errors")

var (
	lintCollection string
	lintSelector   string
)

func init() {
	lintCmd.Flags().StringVar(&lintCollection, "collection", "", "Check only the named collection")
	lintCmd.Flags().StringVar(&lintSelector, "select", "", "JSONPath selector for the objects to check")
	lintCmd.MarkFlagsMutuallyExclusive("collection", "select")
	rootCmd.AddCommand(lintCmd)
}

var lintCmd = &cobra.Command{
	Use:   "lint [scene.json]",
	Short: "Report problems an export of the scene would run into",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		selector, err := selectorFor(lintCollection, lintSelector)
		if err != nil {
			return err
		}
		scene, err := ingest.LoadScene(hostFS, path)
		if err != nil {
			return err
		}
		objects, err := scene.Select(selector)
		if err != nil {
			return err
		}

		diags := linter.Lint(hostFS, scene, objects)
		for _, d := range diags {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		if linter.HasErrors(diags) {
			return ErrLint
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d objects checked, no errors\n", len(objects))
		return nil
	},
}
