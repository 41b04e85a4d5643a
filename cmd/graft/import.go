package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/memory"
)

var (
	importTarget    string
	importStrategy  string
	importStamp     string
	importActor     string
	importSave      bool
	importDelAttrs  bool
	importDelRels   bool
	importDelRefs   bool
	importDelKids   bool
	importDelNested bool
	importOverCT    bool
)

var importCmd = &cobra.Command{
	Use:   "import [snapshotID]",
	Short: "Merge a snapshot into the graph",
	Long: `Load a snapshot from the store and merge it into the graph under the
selected strategy. The snapshot's own topic is the target unless --target
names another unique key.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strategy, err := graft.ParseStrategy(importStrategy)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		stamp, err := graft.ParseStampStrategy(importStamp)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		svc, err := newService()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing service: %v\n", err)
			os.Exit(1)
		}

		opts := graft.ImportOptions{
			Strategy: strategy,
			Stamp:    stamp,
			Actor:    importActor,
			Logger:   slog.Default(),
		}
		// Tri-state overrides: only flags the user actually set override the
		// strategy defaults.
		flagOverride(cmd, "delete-attributes", &opts.DeleteAttributes, importDelAttrs)
		flagOverride(cmd, "delete-relationships", &opts.DeleteRelationships, importDelRels)
		flagOverride(cmd, "delete-references", &opts.DeleteReferences, importDelRefs)
		flagOverride(cmd, "delete-children", &opts.DeleteChildren, importDelKids)
		flagOverride(cmd, "delete-nested", &opts.DeleteNestedTopics, importDelNested)
		flagOverride(cmd, "overwrite-content-type", &opts.OverwriteContentType, importOverCT)

		ctx := context.Background()
		if err := svc.ImportFromStore(ctx, importTarget, args[0], opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %s (%s)\n", args[0], strategy)

		if importSave {
			g, ok := svc.Graph().(*memory.Graph)
			if !ok {
				fmt.Fprintln(os.Stderr, "Error saving: graph is not backed by a document")
				os.Exit(1)
			}
			if err := g.Save(graphPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving graph: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Saved graph to %s\n", graphPath)
		}
	},
}

func flagOverride(cmd *cobra.Command, name string, dst **bool, value bool) {
	if cmd.Flags().Changed(name) {
		*dst = graft.Bool(value)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importTarget, "target", "t", "", "Unique key of the topic to merge onto")
	importCmd.Flags().StringVar(&importStrategy, "strategy", "merge", "Conflict strategy: add, merge, overwrite or replace")
	importCmd.Flags().StringVar(&importStamp, "stamp", "inherit", "Stamp strategy: inherit, target-value, current or system")
	importCmd.Flags().StringVar(&importActor, "actor", "", "Actor recorded by the current stamp strategy")
	importCmd.Flags().BoolVar(&importSave, "save", false, "Write the graph document back after importing")
	importCmd.Flags().BoolVar(&importDelAttrs, "delete-attributes", false, "Delete attributes the snapshot does not mention")
	importCmd.Flags().BoolVar(&importDelRels, "delete-relationships", false, "Delete relationships the snapshot does not mention")
	importCmd.Flags().BoolVar(&importDelRefs, "delete-references", false, "Delete references the snapshot does not mention")
	importCmd.Flags().BoolVar(&importDelKids, "delete-children", false, "Delete children the snapshot does not mention")
	importCmd.Flags().BoolVar(&importDelNested, "delete-nested", false, "Delete nested topics the snapshot does not mention")
	importCmd.Flags().BoolVar(&importOverCT, "overwrite-content-type", false, "Overwrite the content type on mismatch")
}
