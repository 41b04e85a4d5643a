package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

var (
	verbose   bool
	graphPath string
	storeDir  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Export, carry and merge hierarchical topic graphs",
	Long: `Graft turns a subtree of a topic graph into a self-contained snapshot
and merges snapshots back into a graph under an explicit conflict strategy.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newService builds the service from the persistent flags.
func newService() (*graft.Service, error) {
	opts := []graft.Option{
		graft.WithLogger(slog.Default()),
	}
	if storeDir != "" {
		opts = append(opts, graft.WithStoreDir(storeDir))
	}
	return graft.New(graphPath, opts...)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&graphPath, "graph", "g", "graph.yaml", "Path to the graph document")
	rootCmd.PersistentFlags().StringVarP(&storeDir, "store", "s", "", "Directory of the snapshot store")
}
