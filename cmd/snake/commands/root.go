package commands

import (
	"fmt"
	"os"

	"github.com/battlesnakeio/snake/config"
	"github.com/battlesnakeio/snake/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "snake",
	Short:   "snake is a single player snake game for the browser and the terminal",
	Version: version.Version,
	PersistentPreRun: func(*cobra.Command, []string) {
		config.SetupLogging()
	},
	Run: func(c *cobra.Command, args []string) {
		serveCmd.Run(c, args)
	},
}

var (
	apiAddr string
	gameID  string
)

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", "http://localhost:3005", "address of the api server")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(replayCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
