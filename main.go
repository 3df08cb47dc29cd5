package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/pcgrid/pkg/config"
	"github.com/chazu/pcgrid/pkg/graph"
	"github.com/chazu/pcgrid/pkg/hash"
	"github.com/chazu/pcgrid/pkg/nodes"
	"github.com/chazu/pcgrid/pkg/observability"
	"github.com/chazu/pcgrid/pkg/tessellate"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "pcgrid",
		Short:        "Procedural grid generation from node graphs",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")

	var (
		pngPath   string
		objPath   string
		describe  bool
		histogram int
	)
	evalCmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Compile and evaluate a graph program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, configPath, args[0], evalOptions{
				pngPath:   pngPath,
				objPath:   objPath,
				describe:  describe,
				histogram: histogram,
			})
		},
	}
	evalCmd.Flags().StringVar(&pngPath, "png", "", "Write the grid as a grayscale PNG")
	evalCmd.Flags().StringVar(&objPath, "obj", "", "Write the grid as a heightfield OBJ mesh")
	evalCmd.Flags().BoolVar(&describe, "describe", false, "Print the compiled graph")
	evalCmd.Flags().IntVar(&histogram, "histogram", 0, "Print cell counts in this many equal-width buckets")

	var (
		seed      uint32
		x, y      int
		low, high int
	)
	hashCmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the spatial hash of a cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("high") {
				fmt.Fprintf(out, "%016x\n", hash.Hash(seed, x, y))
				return nil
			}
			if high <= low {
				return fmt.Errorf("empty range [%d, %d)", low, high)
			}
			fmt.Fprintln(out, hash.Range(seed, low, high, x, y))
			return nil
		},
	}
	hashCmd.Flags().Uint32Var(&seed, "seed", 0, "Hash seed")
	hashCmd.Flags().IntVar(&x, "x", 0, "Cell column")
	hashCmd.Flags().IntVar(&y, "y", 0, "Cell row")
	hashCmd.Flags().IntVar(&low, "low", 0, "Inclusive lower bound")
	hashCmd.Flags().IntVar(&high, "high", 0, "Exclusive upper bound; prints the raw hash when unset")

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List available node kinds",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, kind := range nodes.Kinds() {
				info, _ := nodes.Lookup(kind)
				fmt.Fprintf(out, "  %-14s -> %-6s %s\n", kind, info.Output, info.Summary)
				for _, p := range info.Params {
					def := "required"
					if !p.Required() {
						def = fmt.Sprintf("default %v", p.Default)
					}
					fmt.Fprintf(out, "      %-10s %-6s %s\n", p.Name, p.Type, def)
				}
			}
		},
	}

	rootCmd.AddCommand(evalCmd, hashCmd, kindsCmd)
	return rootCmd
}

type evalOptions struct {
	pngPath   string
	objPath   string
	describe  bool
	histogram int
}

func runEval(cmd *cobra.Command, configPath, file string, opts evalOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.Log, cmd.ErrOrStderr())
	for _, w := range cfg.Validate() {
		logger.Warn("config", "warning", w)
	}

	ctx := context.Background()
	tp, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	app := NewApp(cfg, logger)
	out := cmd.OutOrStdout()

	result := app.Preview(ctx, string(source))
	if opts.describe && result.Root != nil {
		fmt.Fprint(out, graph.Describe(result.Root))
	}
	for _, w := range result.Warnings {
		logger.Warn(w.Message)
	}
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			if e.Line > 0 {
				msgs = append(msgs, fmt.Sprintf("line %d: %s", e.Line, e.Message))
			} else {
				msgs = append(msgs, e.Message)
			}
		}
		return fmt.Errorf("%s", strings.Join(msgs, "\n"))
	}

	wantGrid := opts.pngPath != "" || opts.objPath != "" || opts.histogram > 0
	m, err := result.Matrix()
	if err != nil {
		if wantGrid {
			return fmt.Errorf("result is not a grid: %w", err)
		}
		fmt.Fprintln(out, result.Text)
		return nil
	}
	fmt.Fprintf(out, "%dx%d -> [%d..%d]\n", m.Size(), m.Size(), m.Min(), m.Max())

	if opts.histogram > 0 {
		for i, c := range m.Histogram(opts.histogram) {
			fmt.Fprintf(out, "  bucket %d: %d\n", i, c)
		}
	}
	if opts.pngPath != "" {
		if err := os.WriteFile(opts.pngPath, result.PNG, 0o644); err != nil {
			return fmt.Errorf("writing png: %w", err)
		}
	}
	if opts.objPath != "" {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		mesh, err := tessellate.Heightfield(m, tessellate.Options{Name: name})
		if err != nil {
			return err
		}
		f, err := os.Create(opts.objPath)
		if err != nil {
			return fmt.Errorf("creating obj: %w", err)
		}
		defer f.Close()
		if err := mesh.WriteOBJ(f); err != nil {
			return fmt.Errorf("writing obj: %w", err)
		}
	}
	return nil
}
