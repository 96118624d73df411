package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/headlines/internal/app"
	"github.com/law-makers/headlines/internal/config"
	"github.com/law-makers/headlines/internal/ui"
	"github.com/law-makers/headlines/pkg/models"
)

func newsServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			http.Error(w, "down", http.StatusServiceUnavailable)
		default:
			fmt.Fprintf(w, `<html><body><h2><a href="/a">%s story A</a></h2><h2><a href="/b">%s story B</a></h2></body></html>`,
				r.URL.Path, r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testApp(t *testing.T, server *httptest.Server) *app.Application {
	t.Helper()
	ui.Plain = true
	t.Cleanup(func() { ui.Plain = false })

	cfg := config.Defaults()
	cfg.LogLevel = "disabled"
	cfg.Delay = 0
	cfg.InteractiveDelay = 0
	cfg.OutputDir = t.TempDir()
	cfg.Sites = map[string][]models.SiteSpec{
		"news": {
			{Name: "First", URL: server.URL + "/first", Selector: "h2 a"},
			{Name: "Down", URL: server.URL + "/down", Selector: "h2 a"},
			{Name: "Third", URL: server.URL + "/third", Selector: "h2 a"},
		},
		"tech": {
			{Name: "Tech", URL: server.URL + "/tech", Selector: "h2 a"},
			{Name: "Other", URL: server.URL + "/other", Selector: "h2 a"},
		},
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func TestREPL(t *testing.T) {
	a := testApp(t, newsServer(t))

	in := strings.NewReader("news\ntech\nsummary\nsave\nclear\nsave\nfrobnicate\n\nhelp\nquit\nnews\n")
	var out bytes.Buffer
	if err := runREPL(context.Background(), a, in, &out); err != nil {
		t.Fatalf("runREPL failed: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		// only the first two news sites run, and the second one fails
		"Collected 2 headlines",
		"Collected 2 tech headlines",
		"Total items: 4",
		"First",
		"Data saved to: ",
		"Data cleared",
		"No data to save",
		"Unknown command: frobnicate",
		"summary - Show data summary",
		"Goodbye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q\n%s", want, got)
		}
	}
	if strings.Count(got, "Collected") != 2 {
		t.Errorf("Commands after quit should not run:\n%s", got)
	}
	if a.Collection.Len() != 0 {
		t.Errorf("Expected collection cleared, got %d", a.Collection.Len())
	}

	matches, _ := filepath.Glob(filepath.Join(a.Config.OutputDir, "interactive_scrape_*.csv"))
	if len(matches) != 1 {
		t.Errorf("Expected one interactive CSV, got %v", matches)
	}
}

func TestREPL_EOF(t *testing.T) {
	a := testApp(t, newsServer(t))
	var out bytes.Buffer
	if err := runREPL(context.Background(), a, strings.NewReader("summary\n"), &out); err != nil {
		t.Fatalf("runREPL failed: %v", err)
	}
	if !strings.Contains(out.String(), "Total items: 0") {
		t.Errorf("Expected empty summary, got:\n%s", out.String())
	}
}

func TestRunCommand(t *testing.T) {
	ui.Plain = true
	t.Cleanup(func() { ui.Plain = false })

	server := newsServer(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "headlines.yaml")
	yaml := fmt.Sprintf(`
delay: 0s
log_level: disabled
sites:
  local:
    - name: First
      url: %[1]s/first
      selector: h2 a
    - name: Down
      url: %[1]s/down
      selector: h2 a
`, server.URL)
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "local", "--config", cfgPath, "-o", dir, "--format", "csv,json"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"Found 2 headlines",
		"1 of 2 sites skipped",
		"1. [First] /first story A",
		"local_headlines_",
		"Total items: 2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q\n%s", want, got)
		}
	}

	csvs, _ := filepath.Glob(filepath.Join(dir, "local_headlines_*.csv"))
	jsons, _ := filepath.Glob(filepath.Join(dir, "local_headlines_*.json"))
	if len(csvs) != 1 || len(jsons) != 1 {
		t.Errorf("Expected one CSV and one JSON export, got %v %v", csvs, jsons)
	}
}

func TestExecute_PrintsErrors(t *testing.T) {
	ui.Plain = true
	t.Cleanup(func() {
		ui.Plain = false
		rootCmd.SetArgs(nil)
	})

	for _, args := range [][]string{{"bogus"}, {"run"}} {
		rootCmd.SetArgs(args)
		var errOut bytes.Buffer
		execute(context.Background(), &errOut)
		if !strings.HasPrefix(errOut.String(), "Error: ") {
			t.Errorf("%v: expected printed error, got %q", args, errOut.String())
		}
	}
}

func TestHelp(t *testing.T) {
	ui.Plain = true
	t.Cleanup(func() {
		ui.Plain = false
		runCmd.SetOut(nil)
	})

	var out bytes.Buffer
	runCmd.SetOut(&out)
	customHelpFunc(runCmd, nil)
	got := out.String()

	for _, want := range []string{
		"RUN\n",
		"Usage\n  headlines run <group> [flags]",
		"  # Scrape the major news sites\n  $ headlines run news\n\n  #",
		"--no-save",
		"Global Flags",
		"--concurrency",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected help to contain %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "Commands\n") {
		t.Errorf("run has no subcommands, got:\n%s", got)
	}
}

func TestWriteFlags(t *testing.T) {
	ui.Plain = true
	t.Cleanup(func() { ui.Plain = false })

	var out bytes.Buffer
	writeFlags(&out, "  -o, --output-dir string   Export directory\n      --render   Use Chrome\n   second line\n")
	want := "  -o, --output-dir string" + strings.Repeat(" ", 28-23+2) + "Export directory\n" +
		"  --render" + strings.Repeat(" ", 28-8+2) + "Use Chrome\n" +
		strings.Repeat(" ", 32) + "second line\n"
	if out.String() != want {
		t.Errorf("writeFlags() =\n%q\nwant\n%q", out.String(), want)
	}
}

func TestParseField(t *testing.T) {
	fs, err := parseField(" link = a[href] ")
	if err != nil {
		t.Fatalf("parseField failed: %v", err)
	}
	if fs.Name != "link" || fs.Selector != "a[href]" {
		t.Errorf("Unexpected field %+v", fs)
	}

	for _, bad := range []string{"noequals", "=h1", "name=", "x=h1[[", "source=span.s", "scraped_at=time"} {
		if _, err := parseField(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestSortByCount(t *testing.T) {
	names := []string{"b", "a", "c"}
	sortByCount(names, map[string]int{"a": 1, "b": 1, "c": 5})
	if strings.Join(names, ",") != "c,a,b" {
		t.Errorf("Unexpected order %v", names)
	}
}
