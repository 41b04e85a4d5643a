package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
	lifecyclead "github.com/aretw0/graft/pkg/adapters/lifecycle"
	"github.com/aretw0/graft/pkg/core"
)

var (
	watchImport   bool
	watchStrategy string
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Watch the snapshot store for changes",
	Long: `Watch the snapshot store and print one line per changed snapshot.
An optional doublestar pattern (e.g. "projects/**") narrows the watch.
With --import, changed snapshots are merged into the graph as they land.
Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}

		strategy, err := graft.ParseStrategy(watchStrategy)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		svc, err := newService()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing service: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := svc.Watch(ctx, pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting watch: %v\n", err)
			os.Exit(1)
		}

		// Bridge through the lifecycle source so the watch participates in
		// managed shutdown like any other worker.
		source := lifecyclead.NewSource(events)
		if err := source.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting event source: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Watching... (Ctrl+C to stop)")
		for e := range source.Events() {
			fmt.Println(e.String())

			event, ok := e.(core.Event)
			if !ok || !watchImport || event.Type == core.EventDelete {
				continue
			}
			opts := graft.ImportOptions{Strategy: strategy, Logger: slog.Default()}
			if err := svc.ImportFromStore(ctx, "", event.ID, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", event.ID, err)
				continue
			}
			fmt.Printf("Imported %s (%s)\n", event.ID, strategy)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchImport, "import", false, "Merge changed snapshots into the graph")
	watchCmd.Flags().StringVar(&watchStrategy, "strategy", "merge", "Conflict strategy used with --import")
}
