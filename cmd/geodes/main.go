package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/loader"
	"github.com/napolitain/geode-solver/internal/logging"
	"github.com/napolitain/geode-solver/internal/models"
	"github.com/napolitain/geode-solver/internal/solver/batch"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

var (
	inputFile  string
	configFile string
	horizon    int
	topHorizon int
	policyName string
	workers    int
	top        int
	format     string
	quiet      bool
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geodes",
		Short: "Geode robot blueprint evaluator",
		Long: `Finds, for every blueprint, the largest number of geodes that can be
opened within the time limit, then prints the quality level sum and the
product of the leading blueprints over a longer horizon.`,
		Run: runSolver,
	}

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Blueprint file (stdin when empty or -)")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().IntVarP(&horizon, "horizon", "t", 24, "Minutes per blueprint")
	rootCmd.Flags().IntVar(&topHorizon, "top-horizon", 32, "Minutes for the leading blueprints")
	rootCmd.Flags().StringVar(&policyName, "policy", "exhaustive", "Branching policy: exhaustive or greedy")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent searches (0 = one per CPU)")
	rootCmd.Flags().IntVar(&top, "top", config.DefaultTop, "Leading blueprints multiplied together (0 to skip)")
	rootCmd.Flags().StringVar(&format, "format", "table", "Output format: table, json or yaml")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every search step")

	return rootCmd
}

func runSolver(cmd *cobra.Command, args []string) {
	switch format {
	case "table", "json", "yaml":
	default:
		color.Red("Unknown output format %q", format)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}
	applyFlags(cmd, cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		color.Red("Invalid options: %v", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging, nil)

	policy, err := geode.ParsePolicy(cfg.Solver.Policy)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	blueprints, err := readBlueprints(inputFile)
	if err != nil {
		color.Red("Error loading blueprints: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Solver.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Solver.Timeout)
		defer cancel()
	}

	tableOutput := format == "table"
	if tableOutput && !quiet {
		printBanner(len(blueprints), cfg, policy)
	}

	evaluator := batch.NewEvaluator(batch.Options{
		Workers:      cfg.Batch.Workers,
		Policy:       policy,
		DisableDedup: cfg.Solver.DisableDedup,
		Logger:       logger,
	})

	report, err := evaluator.Run(ctx, blueprints, cfg.Solver.Horizon, cfg.Batch.Top, cfg.Batch.TopHorizon)
	if err != nil {
		color.Red("Error solving blueprints: %v", err)
		os.Exit(1)
	}

	switch format {
	case "json":
		err = writeJSON(os.Stdout, report)
	case "yaml":
		err = writeYAML(os.Stdout, report)
	default:
		printReport(report)
	}
	if err != nil {
		color.Red("Error writing output: %v", err)
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags override the loaded configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("horizon") {
		cfg.Solver.Horizon = horizon
	}
	if flags.Changed("top-horizon") {
		cfg.Batch.TopHorizon = topHorizon
	}
	if flags.Changed("policy") {
		cfg.Solver.Policy = policyName
	}
	if flags.Changed("workers") && workers > 0 {
		cfg.Batch.Workers = workers
	}
	if flags.Changed("top") {
		cfg.Batch.Top = top
	}
	if verbose {
		cfg.Logging.Level = "debug"
	} else if quiet {
		cfg.Logging.Level = "error"
	}
}

func readBlueprints(path string) ([]models.Blueprint, error) {
	if path == "" || path == "-" {
		return loader.ParseBlueprints(os.Stdin)
	}
	return loader.LoadBlueprints(path)
}

func printBanner(count int, cfg *config.Config, policy geode.Policy) {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  Geode Robot Factory      │")
	titleColor.Println("│  Blueprint Evaluator      │")
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()

	infoColor.Printf("📦 Loaded %d blueprints\n", count)
	infoColor.Printf("⏱️  %d minutes, %s policy, %d workers\n\n", cfg.Solver.Horizon, policy, cfg.Batch.Workers)
}

func printReport(report batch.Report) {
	if !quiet {
		fmt.Printf("📋 Results (%d minutes):\n", report.Horizon)
		printResults(report.Results)
		if report.Top > 0 {
			fmt.Printf("\n📋 First %d blueprints (%d minutes):\n", len(report.TopResults), report.TopHorizon)
			printResults(report.TopResults)
		}
	}

	lines := []string{fmt.Sprintf("✓ Quality level sum: %d", report.QualitySum)}
	if report.Top > 0 {
		lines = append(lines, fmt.Sprintf("✓ Geode product:     %d", report.Product))
	}

	if quiet {
		successColor := color.New(color.FgGreen, color.Bold)
		for _, line := range lines {
			successColor.Println(line)
		}
		return
	}

	summary := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("14")).
		Padding(0, 1)
	fmt.Println()
	fmt.Println(summary.Render(strings.Join(lines, "\n")))
}

func printResults(results []geode.Result) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Blueprint", "Geodes", "Quality", "Generated", "Dedup", "Bound", "Capped", "Peak Frontier", "Time"}),
	)

	for _, r := range results {
		row := []string{
			fmt.Sprintf("%d", r.BlueprintID),
			fmt.Sprintf("%d", r.Geodes),
			fmt.Sprintf("%d", r.Quality()),
			fmt.Sprintf("%d", r.Stats.Generated),
			fmt.Sprintf("%d", r.Stats.PrunedDedup),
			fmt.Sprintf("%d", r.Stats.PrunedBound),
			fmt.Sprintf("%d", r.Stats.CappedBuilds),
			fmt.Sprintf("%d", r.Stats.PeakFrontier),
			r.Stats.Elapsed.Round(time.Microsecond).String(),
		}
		table.Append(row)
	}
	table.Render()
}

func writeJSON(w io.Writer, report batch.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeYAML(w io.Writer, report batch.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
