package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

var (
	exportOut      string
	exportChildren bool
	exportNested   bool
	exportExternal bool
	exportExclude  []string
	exportNoLegacy bool
)

var exportCmd = &cobra.Command{
	Use:   "export [uniqueKey]",
	Short: "Export a topic subtree as a snapshot",
	Long: `Export the topic with the given unique key (e.g. "Root:Projects") as an
interchange snapshot. Prints JSON to stdout, or saves into the snapshot
store with --output.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing service: %v\n", err)
			os.Exit(1)
		}

		opts := graft.ExportOptions{
			IncludeChildren:   exportChildren,
			IncludeNested:     exportNested,
			IncludeExternal:   exportExternal,
			ExcludeAttributes: exportExclude,
			Logger:            slog.Default(),
		}
		if exportNoLegacy {
			opts.TranslateLegacy = graft.Bool(false)
		}

		ctx := context.Background()

		if exportOut != "" {
			if err := svc.ExportToStore(ctx, args[0], exportOut, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Exported %s -> %s\n", args[0], exportOut)
			return
		}

		n, err := svc.Export(ctx, args[0], opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(n); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Snapshot ID to save into the store (requires --store)")
	exportCmd.Flags().BoolVar(&exportChildren, "children", false, "Export the whole subtree")
	exportCmd.Flags().BoolVar(&exportNested, "nested", false, "Export children of list containers")
	exportCmd.Flags().BoolVar(&exportExternal, "external", false, "Keep association targets outside the subtree")
	exportCmd.Flags().StringSliceVar(&exportExclude, "exclude", nil, "Attribute glob patterns to omit")
	exportCmd.Flags().BoolVar(&exportNoLegacy, "no-legacy", false, "Disable legacy pointer translation")
}
