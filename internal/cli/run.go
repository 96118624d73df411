// internal/cli/run.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/law-makers/headlines/internal/app"
	"github.com/law-makers/headlines/internal/sites"
	"github.com/law-makers/headlines/internal/ui"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// previewCount is how many headlines a batch run prints before saving
const previewCount = 5

var noSave bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <group>",
	Short: "Scrape every site in a group and save the headlines",
	Long: `Scrapes each site of the group in order, prints the first few headlines,
saves everything collected in the configured formats and prints a per-source
summary. A site that fails is reported and skipped.`,
	Example: `  # Scrape the major news sites
  headlines run news

  # Four sites at a time, saved as CSV and JSON into ./out
  headlines run tech -c 4 --format csv,json -o out

  # Fall back to headless Chrome for script-driven pages
  headlines run news --render`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, args[0])
	},
}

// newsCmd and techCmd are shortcuts for the two main groups
var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Scrape major news sites (same as: run news)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, sites.GroupNews)
	},
}

var techCmd = &cobra.Command{
	Use:   "tech",
	Short: "Scrape tech news sites (same as: run tech)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGroup(cmd, sites.GroupTech)
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, newsCmd, techCmd} {
		c.Flags().BoolVar(&noSave, "no-save", false, "Print results without writing any export")
		rootCmd.AddCommand(c)
	}
}

func runGroup(cmd *cobra.Command, group string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	out := cmd.OutOrStdout()

	list, err := a.Config.SiteGroups().Get(group)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Scraping %s sites...\n", ui.Info("→"), group)

	bar := newProgress(len(list), a)
	failed := 0
	scraper := a.NewScraper(a.Config.Delay, func(site models.SiteSpec, count int, err error) {
		if err != nil {
			failed++
		}
		if bar != nil {
			bar.Describe(site.Name)
			bar.Add(1)
		}
	})

	records := scraper.ScrapeHeadlines(cmd.Context(), list)
	if bar != nil {
		bar.Finish()
	}

	if len(records) == 0 {
		fmt.Fprintln(out, ui.Error("✗ No headlines found"))
		if failed > 0 {
			fmt.Fprintf(out, "  %d of %d sites failed, run with -v for details\n", failed, len(list))
		}
		return nil
	}

	fmt.Fprintf(out, "\n%s Found %d headlines\n", ui.Success("✓"), len(records))
	if failed > 0 {
		fmt.Fprintf(out, "  %s\n", ui.Info(fmt.Sprintf("%d of %d sites skipped", failed, len(list))))
	}
	printPreview(out, records, previewCount)

	if !noSave {
		written, err := a.Save(cmd.Context(), sites.ExportPrefix(group), records)
		for _, path := range written {
			fmt.Fprintf(out, "\n%s Data saved to: %s", ui.Success("✓"), path)
		}
		fmt.Fprintln(out)
		if err != nil {
			return err
		}
	}

	printSummary(out, a.Collection.Summarize())
	return nil
}

// newProgress returns a progress bar on stderr, or nil when logs or quiet
// mode would interfere with it.
func newProgress(total int, a *app.Application) *progressbar.ProgressBar {
	if total < 2 || a.Config.JSONLog || a.Config.LogLevel == "debug" || a.Config.LogLevel == "disabled" {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scraping"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

// printPreview prints the first n records as "i. [source] title"
func printPreview(w io.Writer, records []models.Record, n int) {
	if len(records) < n {
		n = len(records)
	}
	for i, r := range records[:n] {
		title, _ := r.Get(models.FieldTitle)
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, ui.Source(r.Source), title)
	}
}

// printSummary prints totals and a per-source table, busiest source first
func printSummary(w io.Writer, s models.Summary) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold("Summary"))
	fmt.Fprintf(w, "Total items: %d\n", s.Total)
	if s.Latest != nil {
		fmt.Fprintf(w, "Latest scrape: %s\n", s.Latest.Format(models.TimestampLayout))
	}
	if len(s.Sources) == 0 {
		return
	}

	names := make([]string, 0, len(s.Sources))
	for name := range s.Sources {
		names = append(names, name)
	}
	sortByCount(names, s.Sources)

	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, strconv.Itoa(s.Sources[name])}
	}
	fmt.Fprintln(w)
	ui.Table(w, []string{"Source", "Articles"}, rows, 40)
}
