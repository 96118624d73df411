// internal/cli/interactive.go
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/law-makers/headlines/internal/app"
	"github.com/law-makers/headlines/internal/engine"
	"github.com/law-makers/headlines/internal/sites"
	"github.com/law-makers/headlines/internal/ui"
	"github.com/spf13/cobra"
)

// Sites scraped by the REPL's news and tech commands
const (
	replNewsSites = 2
	replTechSites = 1
)

// interactiveCmd represents the interactive command
var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl"},
	Short:   "Scrape from an interactive prompt",
	Long: `Starts a prompt that keeps everything collected until you clear it.

Commands:
  news     Scrape the first two news sites
  tech     Scrape the first tech site
  summary  Show what has been collected
  clear    Drop everything collected
  save     Save everything collected
  help     Show the commands
  quit     Exit (also: exit, Ctrl-D)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return fmt.Errorf("application not initialized")
		}
		return runREPL(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// runREPL reads commands from in until quit, EOF or ctx is cancelled. A
// failing command prints its error and the loop continues.
func runREPL(ctx context.Context, a *app.Application, in io.Reader, out io.Writer) error {
	groups := a.Config.SiteGroups()
	scraper := a.NewScraper(a.Config.InteractiveDelay, nil)

	scrape := func(group string, n int, label string) error {
		list, err := groups.First(group, n)
		if err != nil {
			return err
		}
		records := scraper.ScrapeHeadlines(ctx, list)
		fmt.Fprintf(out, "Collected %d %s\n", len(records), label)
		return nil
	}

	fmt.Fprintln(out, ui.Bold("Headlines interactive mode"))
	fmt.Fprintln(out, "Commands: news, tech, summary, clear, save, help, quit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nheadlines> ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return scanner.Err()
		}
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}

		var err error
		switch command := strings.ToLower(strings.TrimSpace(scanner.Text())); command {
		case "":
			continue
		case "quit", "exit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help":
			printREPLHelp(out)
		case "news":
			err = scrape(sites.GroupNews, replNewsSites, "headlines")
		case "tech":
			err = scrape(sites.GroupTech, replTechSites, "tech headlines")
		case "summary":
			printSummary(out, a.Collection.Summarize())
		case "clear":
			a.Collection.Clear()
			fmt.Fprintln(out, "Data cleared")
		case "save":
			var written []string
			written, err = a.Save(ctx, "interactive_scrape", nil)
			if errors.Is(err, engine.ErrNoData) {
				fmt.Fprintln(out, "No data to save")
				err = nil
			}
			for _, path := range written {
				fmt.Fprintf(out, "Data saved to: %s\n", path)
			}
		default:
			fmt.Fprintf(out, "Unknown command: %s. Type 'help' for commands.\n", command)
		}

		if err != nil {
			fmt.Fprintf(out, "%s %v\n", ui.Error("Error:"), err)
		}
	}
}

func printREPLHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  news    - Scrape news headlines")
	fmt.Fprintln(out, "  tech    - Scrape tech news")
	fmt.Fprintln(out, "  summary - Show data summary")
	fmt.Fprintln(out, "  clear   - Clear collected data")
	fmt.Fprintln(out, "  save    - Save collected data")
	fmt.Fprintln(out, "  quit    - Exit")
}
