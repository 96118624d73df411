// internal/cli/sites.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// sitesCmd represents the sites command
var sitesCmd = &cobra.Command{
	Use:   "sites [group]",
	Short: "Print the configured site groups as YAML",
	Long: `Prints the built-in site groups merged with the sites section of the
config file. The output can be pasted back into headlines.yaml as a starting
point.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return fmt.Errorf("application not initialized")
		}

		groups := a.Config.SiteGroups()
		doc := map[string]any{"sites": groups}
		if len(args) == 1 {
			list, err := groups.Get(args[0])
			if err != nil {
				return err
			}
			doc = map[string]any{"sites": map[string]any{args[0]: list}}
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode sites: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
