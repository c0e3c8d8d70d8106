package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mcp-cocktail-recipes/internal/models"
	"mcp-cocktail-recipes/internal/recipeparse"
	"mcp-cocktail-recipes/internal/render"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		format string
		pretty bool
		style  string
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse recipes from a saved model response",
		Long: `Reads model output from a file, or stdin when no file is given, and prints
the recipes found in it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			parser := recipeparse.NewParser(recipeparse.WithLogger(a.logger.Named("recipeparse")))
			result := parser.Parse(string(raw))
			return writeResult(cmd.OutOrStdout(), result, format, pretty, style)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json, yaml, markdown")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON, or render markdown for the terminal")
	cmd.Flags().StringVar(&style, "style", "", "glamour style for --pretty markdown (default: auto)")
	return cmd
}

func writeResult(w io.Writer, result models.ParseResult, format string, pretty bool, style string) error {
	var out []byte
	var err error

	switch format {
	case formatJSON:
		if pretty {
			out, err = json.MarshalIndent(result, "", "  ")
		} else {
			out, err = json.Marshal(result)
		}
		out = append(out, '\n')
	case formatYAML:
		out, err = yaml.Marshal(result)
	case formatMarkdown:
		var text string
		if pretty {
			text, err = render.Terminal(result.Recipes, style, 0)
		} else {
			text = render.Markdown(result.Recipes)
		}
		out = []byte(text)
	default:
		return fmt.Errorf("unknown format %q (supported: json, yaml, markdown)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to format recipes: %w", err)
	}

	_, err = w.Write(out)
	return err
}
