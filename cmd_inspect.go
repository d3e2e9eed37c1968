package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"osuexport/dotosu"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Parse one .osu file and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgViper)
		if err != nil {
			return err
		}
		objects, _ := cmd.Flags().GetBool("objects")
		return inspect(cmd.OutOrStdout(), newParser(cfg.Parser), args[0], objects)
	},
}

func init() {
	inspectCmd.Flags().Bool("objects", false, "summarise hit objects by kind instead of printing the document")
	inspectCmd.Flags().Bool("numeric-booleans", false, `treat "0" as false for [General] flags`)
	if err := cfgViper.BindPFlag("parser.numeric_booleans", inspectCmd.Flags().Lookup("numeric-booleans")); err != nil {
		panic(err)
	}
}

func inspect(w io.Writer, parser *dotosu.Parser, path string, objects bool) error {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	if objects {
		return summariseObjects(w, doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func summariseObjects(w io.Writer, doc *dotosu.Document) error {
	counts := map[string]int{}
	var drawn float64
	for i, raw := range doc.HitObjects {
		ho, err := dotosu.DecodeHitObject(raw)
		if err != nil {
			logger.Warn("hit object", "index", i, "line", raw, "err", err)
			counts["invalid"]++
			continue
		}
		counts[ho.Kind.String()]++
		if ho.Kind == dotosu.KindSlider {
			drawn += dotosu.Length(ho.Path.Polyline())
		}
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Fprintln(w, doc)
	for _, k := range kinds {
		if _, err := fmt.Fprintf(w, "%-8s %d\n", k, counts[k]); err != nil {
			return err
		}
	}
	if counts["slider"] > 0 {
		_, err := fmt.Fprintf(w, "slider path %.1f px\n", drawn)
		return err
	}
	return nil
}
