// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdiddy/blogsmith/internal/export"
	"github.com/pdiddy/blogsmith/internal/pipeline"
	"github.com/pdiddy/blogsmith/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic...>",
	Short: "Generate one blog post for a topic",
	Long: `Generate runs research, outline, draft and rewrite for a topic and writes
the final post to stdout, or to --output-dir when set. Stage progress is
printed to stderr. On a terminal the markdown is rendered unless --raw is
given.`,
	Example: `  blogsmith generate Sustainable Living Tips
  blogsmith generate --format text --output-dir posts "AI in Education"`,
	Args: cobra.MinimumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlag("export.format", cmd.Flags().Lookup("format"))
		bindFlag("export.output_dir", cmd.Flags().Lookup("output-dir"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.TrimSpace(strings.Join(args, " "))
		if topic == "" {
			return fmt.Errorf("topic must not be empty")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		stderr := cmd.ErrOrStderr()
		ex, err := newExecutor(cfg, pipeline.WithHooks(progressHooks(stderr)))
		if err != nil {
			return err
		}

		state, err := ex.Execute(cmd.Context(), topic)
		if err != nil {
			return generationError(err)
		}

		if show, _ := cmd.Flags().GetBool("show-stages"); show {
			printStages(stderr, state)
		}

		final, _ := state.Get(pipeline.FieldFinalBlog)
		doc := export.Document{Topic: topic, Body: final}
		if cfg.Export.OutputDir != "" {
			path, err := export.WriteFile(cfg.Export.OutputDir, doc, cfg.Export.Format)
			if err != nil {
				return err
			}
			fmt.Fprintf(stderr, "Wrote %s\n", path)
			return nil
		}

		raw, _ := cmd.Flags().GetBool("raw")
		return writePost(cmd.OutOrStdout(), doc, cfg.Export.Format, !raw && stdoutIsTerminal(cmd.OutOrStdout()))
	},
}

func init() {
	generateCmd.Flags().String("format", "markdown", "output format: markdown, text, or html")
	generateCmd.Flags().String("output-dir", "", "write <topic>_blog.<ext> here instead of stdout")
	generateCmd.Flags().Bool("raw", false, "print markdown as-is even on a terminal")
	generateCmd.Flags().Bool("show-stages", false, "print facts, outline and draft to stderr")

	rootCmd.AddCommand(generateCmd)
}

// writePost writes doc to w. Markdown bound for a terminal is rendered with
// glamour; anything else goes through the exporter unchanged.
func writePost(w io.Writer, doc export.Document, format types.ExportFormat, pretty bool) error {
	if pretty && (format == types.FormatMarkdown || format == "") {
		r, err := export.NewTerminalRenderer(terminalWidth())
		if err != nil {
			return err
		}
		out, err := r.Render(doc.Body)
		if err != nil {
			return fmt.Errorf("rendering post: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return export.Write(w, doc, format)
}

// generationError wraps a run failure for the user. A StageError already
// names its stage, so only the run-level prefix is added.
func generationError(err error) error {
	return fmt.Errorf("generation failed: %w", err)
}

// printStages writes every intermediate field under a heading.
func printStages(w io.Writer, state pipeline.State) {
	for _, f := range []pipeline.Field{pipeline.FieldFacts, pipeline.FieldOutline, pipeline.FieldDraft} {
		v, _ := state.Get(f)
		fmt.Fprintf(w, "\n===== %s =====\n%s\n", f, strings.TrimRight(v, "\n"))
	}
	fmt.Fprintln(w)
}

func stdoutIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return min(width, 100)
}
