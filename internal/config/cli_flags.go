package config

import "github.com/spf13/cobra"

// flagKeys maps config keys to the persistent flag that overrides them
var flagKeys = map[string]string{
	"json_log":     "json",
	"timeout":      "timeout",
	"user_agent":   "user-agent",
	"proxies":      "proxy",
	"delay":        "delay",
	"max_per_site": "max-per-site",
	"concurrency":  "concurrency",
	"render":       "render",
	"chrome_path":  "chrome-path",
	"output_dir":   "output-dir",
	"formats":      "format",
	"mongo_uri":    "mongo-uri",
}

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all log output")
	pf.Bool("json", false, "Write logs as JSON")
	pf.String("config", "", "Path to configuration file (optional)")
	pf.StringSlice("proxy", nil, "HTTP/SOCKS5 proxies to rotate through (e.g., http://localhost:8080)")
	pf.Duration("timeout", DefaultHTTPTimeout, "Per-request timeout")
	pf.String("user-agent", "", "Custom user agent string")
	pf.StringArrayP("header", "H", nil, "Extra request header (\"Key: Value\"), repeatable")
	pf.Duration("delay", DefaultDelay, "Pause after every successful fetch")
	pf.Int("max-per-site", DefaultMaxPerSite, "Matches considered per site")
	pf.IntP("concurrency", "c", DefaultConcurrency, "Sites fetched at once (1 = sequential)")
	pf.Bool("render", false, "Render script-driven pages with headless Chrome when static HTML has no matches")
	pf.String("chrome-path", "", "Chrome/Chromium executable for --render")
	pf.StringP("output-dir", "o", "", "Directory export files are written to")
	pf.StringSlice("format", nil, "Export formats: csv, json, md, chart, mongo")
	pf.String("mongo-uri", "", "MongoDB connection URI for the mongo format")
}
