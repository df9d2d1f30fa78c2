package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/disposition/pkg/errors"
	"github.com/matzehuels/disposition/pkg/pipeline"
)

func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check a diagram document for errors and mapping issues",
		Long: `Parse and lay out a diagram document without writing anything.

Problems are listed in order: parse errors, then mapping issues, then layout
errors. Parse and layout errors make the command fail; mapping issues only
do with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			doc, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			in, err := pipeline.Parse(doc, -1)
			if err != nil {
				printError(out, "%s", errors.UserMessage(err))
				return err
			}
			d, issues := pipeline.Lower(in)
			printIssues(out, issues)

			opts := pipeline.Options{}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if _, err := pipeline.Layout(d, opts); err != nil {
				printError(out, "%s", errors.UserMessage(err))
				return err
			}

			if len(issues) > 0 {
				printInfo(out, "%d %s", len(issues), plural(len(issues), "issue", "issues"))
				if strict {
					return errors.New(errors.ErrCodeInvalidInput, "%d mapping %s", len(issues), plural(len(issues), "issue", "issues"))
				}
				return nil
			}
			printSuccess(out, "%s is valid", args[0])
			printDetail(out, "%d nodes · %d edges", d.Nodes.Len(), d.EdgeCount())
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on mapping issues")
	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
