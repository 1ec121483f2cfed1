package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "lockerd",
	Short: "Parcel locker service",
	Long: `lockerd runs the parcel locker service: couriers deposit parcels into
free lockers, recipients collect them with one-time pickup codes.

Available subcommands:
  serve     - Run the HTTP API and background jobs
  migrate   - Create or update the database schema
  provision - Create the lockers listed in the inventory file`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	serveCmd.Flags().BoolVar(&serveSkipProvision, "skip-provision", false, "do not provision lockers on startup")

	rootCmd.AddCommand(serveCmd, migrateCmd, provisionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
