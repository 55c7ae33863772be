// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/blogsmith/internal/pipeline"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Print the default stage prompts as YAML",
	Long: `Prompts prints the built-in prompt template for each stage. Save the output,
edit it, and point pipeline.prompts_file at it to customize wording. A
template may only use the fields its stage reads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writePrompts(cmd.OutOrStdout(), pipeline.DefaultPrompts())
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func writePrompts(w io.Writer, p pipeline.Prompts) error {
	fmt.Fprintln(w, "# blogsmith prompt templates; keys are stage names.")
	fmt.Fprintln(w, "# research: {{.Topic}}  outline: {{.Topic}} {{.Facts}}  draft: {{.Outline}}  rewrite: {{.Draft}}")
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]string(p)); err != nil {
		return fmt.Errorf("encoding prompts: %w", err)
	}
	return enc.Close()
}
