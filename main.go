package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	cfgViper = newViper()

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "Export the beatmaps of an osu! file store as downloadable sets",
		Long: `osuexport walks a directory (typically osu!lazer's "files" folder),
finds every .osu beatmap in it, groups them by beatmap set and downloads
each newly seen set from a mirror exactly once.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setVerbose(verbose)
			return readConfigFile(cfgViper, cfgFile)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./osuexport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error(err)
		}
		os.Exit(1)
	}
}
