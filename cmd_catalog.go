package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the stored set catalog as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if db, _ := cmd.Flags().GetString("db"); db != "" {
			cfgViper.Set("db_path", db)
		}
		cfg, err := loadConfig(cfgViper)
		if err != nil {
			return err
		}
		store, err := OpenStore(cmd.Context(), cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		catalog, err := store.LoadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		return printCatalog(cmd.OutOrStdout(), catalog)
	},
}

func init() {
	catalogCmd.Flags().String("db", "", "path of the SQLite catalog database")
}

func printCatalog(w io.Writer, c *Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(c)
}
