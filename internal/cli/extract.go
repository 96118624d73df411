// internal/cli/extract.go
package cli

import (
	"fmt"
	"strings"

	"github.com/law-makers/headlines/internal/extract"
	urlutil "github.com/law-makers/headlines/internal/utils/url"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/spf13/cobra"
)

var (
	fields     []string
	sourceName string
	savePrefix string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract arbitrary fields from one page",
	Long: `Extracts one record per element matched by the first field's selector.
Every other field is looked up inside that element; a field with no match is
left empty. Selectors ending in [href] or [src] return that attribute.

Selectors are CSS by default; prefix one with "xpath:" to use XPath.`,
	Example: `  # Titles and links from Hacker News
  headlines extract https://news.ycombinator.com/ -f "title=.titleline" -f "link=.titleline > a[href]"

  # XPath rows, saved as CSV
  headlines extract https://example.com -f "heading=xpath://h1" --save example`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Field as name=selector, repeatable; the first picks the rows")
	extractCmd.Flags().StringVar(&sourceName, "name", "", "Source name recorded on each row (default: the URL's host)")
	extractCmd.Flags().StringVar(&savePrefix, "save", "", "Save the rows with this file prefix")
	extractCmd.MarkFlagRequired("field")
}

func runExtract(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	url := args[0]
	if err := urlutil.ValidateURL(url); err != nil {
		return err
	}

	spec := models.GenericSpec{Name: sourceName, URL: url}
	for _, f := range fields {
		fs, err := parseField(f)
		if err != nil {
			return err
		}
		spec.Fields = append(spec.Fields, fs)
	}

	records, err := a.NewScraper(0, nil).ScrapeGeneric(cmd.Context(), spec)
	if err != nil {
		return fmt.Errorf("failed to extract: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No matching elements")
		return nil
	}
	if err := printRecords(out, records); err != nil {
		return err
	}

	if savePrefix != "" {
		written, err := a.Save(cmd.Context(), savePrefix, records)
		for _, path := range written {
			fmt.Fprintf(out, "Saved to %s\n", path)
		}
		return err
	}
	return nil
}

// parseField splits "name=selector" and checks the selector compiles
func parseField(s string) (models.FieldSelector, error) {
	name, selector, ok := strings.Cut(s, "=")
	name, selector = strings.TrimSpace(name), strings.TrimSpace(selector)
	if !ok || name == "" || selector == "" {
		return models.FieldSelector{}, fmt.Errorf("invalid field %q: want name=selector", s)
	}
	if err := extract.CheckFieldName(name); err != nil {
		return models.FieldSelector{}, err
	}
	if err := extract.Validate(selector); err != nil {
		return models.FieldSelector{}, fmt.Errorf("field %q: %w", name, err)
	}
	return models.FieldSelector{Name: name, Selector: selector}, nil
}
