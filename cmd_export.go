package main

import (
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Scan a directory for beatmaps and download every new set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfgViper.Set("source_dir", args[0])
		}
		cfg, err := loadConfig(cfgViper)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		store, err := OpenStore(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var downloader SetDownloader
		if cfg.Download.Enabled {
			throttle := NewThrottle(cfg.Download.RateLimit, time.Minute, cfg.Download.Concurrency)
			defer throttle.Stop()
			downloader = NewDownloader(cfg.Download, cfg.DownloadDir, throttle)
		}

		start := time.Now()
		report, err := NewExporter(cfg, store, downloader, NewFailureLog(cfg.FailDir)).Run(ctx)
		if report != nil {
			logger.Info("export finished",
				"files", report.Files,
				"beatmaps", report.Beatmaps,
				"skipped", report.Skipped,
				"failed", report.Failed,
				"sets", report.Sets,
				"new_sets", report.NewSets,
				"downloaded", report.Downloaded,
				"took", time.Since(start).Round(time.Millisecond),
			)
		}
		return err
	},
}

func init() {
	f := exportCmd.Flags()
	f.String("download-dir", "", "directory that receives downloaded .osz archives")
	f.String("catalog", "", "path of the JSON catalog written after the scan")
	f.String("db", "", "path of the SQLite catalog database")
	f.String("fail-dir", "", "directory that records files and sets that failed")
	f.Int("workers", 0, "number of files parsed concurrently")
	f.Bool("no-download", false, "only scan and record, never download")

	bind := map[string]string{
		"download_dir": "download-dir",
		"catalog_path": "catalog",
		"db_path":      "db",
		"fail_dir":     "fail-dir",
		"workers":      "workers",
	}
	for key, flag := range bind {
		if err := cfgViper.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	exportCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if noDownload, _ := cmd.Flags().GetBool("no-download"); noDownload {
			cfgViper.Set("download.enabled", false)
		}
	}
}
