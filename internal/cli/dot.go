package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/disposition/pkg/render/nodelink"
)

func (c *CLI) dotCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
		opts    nodelink.Options
	)

	cmd := &cobra.Command{
		Use:   "dot <file|->",
		Short: "Write the diagram's IR as a Graphviz graph",
		Long: `Write every IR node and edge as a Graphviz graph, ignoring layout.

Nodes with children are drawn as clusters and interaction edges are dashed.
With --format svg the graph is laid out in process by Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache || c.Config.Render.NoCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := runner.Overview(cmd.Context(), doc, format, opts)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeFileAtomic(output, data); err != nil {
				return err
			}
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include entity descriptions in labels")
	cmd.Flags().BoolVar(&opts.LeftToRight, "lr", false, "lay ranks out left to right")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	return cmd
}
