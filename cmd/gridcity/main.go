package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridcity",
		Short: "Grid city simulation engine",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(inspectCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless and report city statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHeadless(opts)
		},
	}

	cmd.Flags().StringVar(&opts.paramsPath, "params", "", "parameter YAML file (defaults used when empty)")
	cmd.Flags().StringVar(&opts.loadPath, "load", "", "save file to resume from")
	cmd.Flags().StringVar(&opts.savePath, "save", "", "write the final state to this save file")
	cmd.Flags().IntVar(&opts.days, "days", 7, "in-game days to simulate")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "simulation seed (0 picks from the clock)")
	return cmd
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live simulation server with websocket clients",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 3000, "HTTP server port")
	cmd.Flags().StringVar(&opts.paramsPath, "params", "", "parameter YAML file (defaults used when empty)")
	cmd.Flags().StringVar(&opts.saveDir, "saves", "saves", "directory for saves and autosaves")
	cmd.Flags().StringVar(&opts.loadPath, "load", "", "save file to resume (latest autosave when empty)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "simulation seed (0 picks from the clock)")
	return cmd
}

func newCmd() *cobra.Command {
	var paramsPath string
	var seed int64

	cmd := &cobra.Command{
		Use:   "new [save-file]",
		Short: "Create a fresh city and write it to a save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runNew(args[0], paramsPath, seed)
		},
	}

	cmd.Flags().StringVar(&paramsPath, "params", "", "parameter YAML file (defaults used when empty)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "simulation seed (0 picks from the clock)")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [save-file]",
		Short: "Summarize a save file without loading the city",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}
