package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
	"github.com/uengine-oss/robo-data-fabric/internal/config"
	"github.com/uengine-oss/robo-data-fabric/internal/store"
)

// Process-wide stores, created once before any command runs and shared by
// every view for the lifetime of the process.
var (
	api         *client.Client
	datasources *store.DatasourceStore
	queries     *store.QueryStore
)

var rootCmd = &cobra.Command{
	Use:   "fabricctl",
	Short: "fabricctl is the admin console for the data-fabric query server",
	Long: `An operator console for a data-virtualization server: register external
data sources, browse their tables and schemas, run federated SQL and
materialize table subsets into local cache tables.

Run without a subcommand to start the interactive SQL console.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		server, _ := cmd.Flags().GetString("server")
		timeout, _ := cmd.Flags().GetInt("connection-timeout")

		if cfg, err := config.LoadConfig(); err == nil {
			displayWide = cfg.DisplayWide
			displayMaxColWidth = cfg.Display.MaxColWidth
			sampleLimit = cfg.SampleLimit
		}

		api = client.NewClient(
			config.ResolveServerURL(server),
			time.Duration(timeout)*time.Millisecond,
		)
		datasources = store.NewDatasourceStore(api)
		queries = store.NewQueryStore(api)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP(
		"server", "s", "",
		"Backend base URL (default: FABRIC_API_URL or http://localhost:8000/api)",
	)
	rootCmd.PersistentFlags().Int(
		"connection-timeout", 5000,
		"Connection timeout in milliseconds.",
	)
	rootCmd.PersistentFlags().Bool(
		"plain", false,
		"Use plain ASCII output instead of Unicode box-drawing characters.",
	)
}
