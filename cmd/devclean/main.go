// Command devclean is the CLI collaborator: a thin, non-authoritative
// consumer of the core packages (scanner, registry, cache, gitstatus,
// protection, deleter) that wires flags to those operations and renders
// results. It is not where the system's complexity lives (spec.md §12).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/spf13/cobra"

	"github.com/arjunvg/devclean/internal/cache"
	"github.com/arjunvg/devclean/internal/config"
	"github.com/arjunvg/devclean/internal/deleter"
	"github.com/arjunvg/devclean/internal/gitstatus"
	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/internal/progress"
	"github.com/arjunvg/devclean/internal/protection"
	"github.com/arjunvg/devclean/internal/registry"
	"github.com/arjunvg/devclean/internal/reporter"
	"github.com/arjunvg/devclean/internal/scanner"
	"github.com/arjunvg/devclean/internal/sizeparse"
	"github.com/arjunvg/devclean/internal/tui"
)

var (
	verbose        bool
	noColor        bool
	maxDepth       int
	noDepthLimit   bool
	minSizeFlag    string
	followSymlinks bool
	excludePaths   []string
	workers        int

	protectionFlag string
	deleteMethod   string
	force          bool
	interactiveUI  bool
	noCache        bool
	interactive    = true
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "devclean",
		Short:   "Developer disk-cleanup engine",
		Long:    "devclean scans developer machines for cleanable build artifacts, caches and dependency directories, and removes them behind a git-awareness protection gate.",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 6, "maximum directory depth to descend into")
	rootCmd.PersistentFlags().BoolVar(&noDepthLimit, "no-depth-limit", false, "disable the max-depth cutoff entirely")
	rootCmd.PersistentFlags().StringVar(&minSizeFlag, "min-size", "", "skip projects smaller than this (e.g. 50MB); see the size grammar in internal/sizeparse")
	rootCmd.PersistentFlags().BoolVar(&followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	rootCmd.PersistentFlags().StringSliceVar(&excludePaths, "exclude", nil, "doublestar glob patterns to exclude from the walk (repeatable)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "scanner worker pool size (0 = logical core count)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "ignore the scan cache and always walk the filesystem")

	rootCmd.AddCommand(
		newScanCmd(),
		newCleanCmd(),
		newProtectCheckCmd(),
		newCacheCmd(),
	)

	cobra.OnInitialize(func() {
		if noColor {
			// lipgloss/termenv both honor the NO_COLOR convention
			// (https://no-color.org) for disabling styled output.
			os.Setenv("NO_COLOR", "1")
		}
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildScanConfig turns the persistent flags plus positional roots into
// a model.ScanConfig, sizing Workers off gopsutil's logical core count
// when the caller didn't pin one (spec.md §11 "pool size = logical
// cores").
func buildScanConfig(roots []string) model.ScanConfig {
	if len(roots) == 0 {
		if cwd, err := os.Getwd(); err == nil {
			roots = []string{cwd}
		}
	}

	w := workers
	if w <= 0 {
		if n, err := cpu.Counts(true); err == nil && n > 0 {
			w = n
		}
	}

	var minSize int64
	if minSizeFlag != "" {
		if n, ok := sizeparse.ParseSize(minSizeFlag); ok {
			minSize = n
		}
	}

	return model.ScanConfig{
		Roots:           roots,
		MaxDepth:        maxDepth,
		MaxDepthEnabled: !noDepthLimit,
		MinSize:         minSize,
		FollowSymlinks:  followSymlinks,
		ExcludedPaths:   excludePaths,
		Workers:         w,
	}
}

func runScan(ctx context.Context, cfg model.ScanConfig) (model.ScanResult, error) {
	reg := registry.WithBuiltins()
	sc := scanner.New(reg, cfg.Workers)

	c := cache.Load()
	if !noCache {
		if cached, ok := reuseCache(c, cfg); ok {
			return model.ScanResult{Projects: cached}, nil
		}
	}

	rptr := progress.New()

	var result model.ScanResult
	var scanErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, scanErr = sc.Scan(ctx, cfg, rptr)
	}()

	if interactiveUI {
		_ = tui.RunScanProgress(rptr)
	}
	<-done
	if scanErr != nil {
		return model.ScanResult{}, scanErr
	}

	if !noCache {
		for _, p := range result.Projects {
			_ = c.CacheProject(p)
		}
		c.Touch()
		_ = c.Save()
	}

	return result, nil
}

// reuseCache returns the filtered cached project set for a single-root
// scan whose root is covered by a valid cache entry subtree (spec.md
// §4.3 reuse policy), else (nil, false) so the caller falls back to a
// live scan. A scan with more than one root always walks the filesystem.
func reuseCache(c *cache.ScanCache, cfg model.ScanConfig) ([]model.Project, bool) {
	if len(cfg.Roots) != 1 {
		return nil, false
	}
	return c.ReuseForRoot(cfg.Roots[0])
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Scan one or more directory trees for cleanable projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rep := reporter.New(verbose)
			rep.PrintHeader()

			cfg := buildScanConfig(args)
			res, err := runScan(ctx, cfg)
			if err != nil {
				rep.PrintError(err.Error())
				return err
			}

			rep.PrintScanSummary(res)
			rep.PrintProjectDetails(res.Projects)
			return nil
		},
	}
	cmd.Flags().BoolVar(&interactiveUI, "ui", false, "show a live bubbletea progress view while scanning")
	return cmd
}

func newProtectCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protect-check [roots...]",
		Short: "Scan and report the Protection Gate's decision for each project, without deleting anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rep := reporter.New(verbose)
			rep.PrintHeader()

			cfg := buildScanConfig(args)
			res, err := runScan(ctx, cfg)
			if err != nil {
				rep.PrintError(err.Error())
				return err
			}

			gitstatus.NewDefault().EnrichAll(ctx, res.Projects)

			level, err := config.ParseProtectionLevel(protectionFlag)
			if err != nil {
				rep.PrintError(err.Error())
				return err
			}

			rep.PrintProtectionLegend()
			for _, p := range res.Projects {
				check := protection.CheckProjectProtection(p, level, force)
				if !check.Allowed {
					rep.PrintProtectionDenied(p, check)
				} else if len(check.Reasons) > 0 {
					rep.PrintWarning(fmt.Sprintf("%s allowed with risks: %v", p.Root, check.Reasons))
				} else {
					rep.PrintSuccess(fmt.Sprintf("%s clear to clean", p.Root))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&protectionFlag, "protection", "block", "protection level: none|warn|block|paranoid")
	cmd.Flags().BoolVar(&force, "force", false, "record a --force override (does not bypass protect-check's reporting)")
	return cmd
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [roots...]",
		Short: "Scan, apply the Protection Gate, and delete cleanable artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rep := reporter.New(verbose)
			rep.PrintHeader()

			cfg := buildScanConfig(args)
			res, err := runScan(ctx, cfg)
			if err != nil {
				rep.PrintError(err.Error())
				return err
			}
			if len(res.Projects) == 0 {
				rep.PrintInfo("nothing to clean")
				return nil
			}

			gitstatus.NewDefault().EnrichAll(ctx, res.Projects)

			level, err := config.ParseProtectionLevel(protectionFlag)
			if err != nil {
				rep.PrintError(err.Error())
				return err
			}
			method, err := config.ParseDeleteMethod(deleteMethod)
			if err != nil {
				rep.PrintError(err.Error())
				return err
			}

			guard := deleter.NewGuard(cfg.Roots)

			var allowed []model.Project
			for _, p := range res.Projects {
				check := protection.CheckProjectProtection(p, level, force)
				if !check.Allowed {
					rep.PrintProtectionDenied(p, check)
					continue
				}
				allowed = append(allowed, p)
			}
			if len(allowed) == 0 {
				rep.PrintInfo("every project was blocked by the protection gate")
				return nil
			}

			rep.PrintScanSummary(model.ScanResult{Projects: allowed, DirectoriesScanned: res.DirectoriesScanned, Duration: res.Duration})

			del := func(p model.Project) (int64, error) {
				var freed int64
				var lastErr error
				for _, a := range p.Artifacts {
					result := deleter.DeletePath(a.Path, a.Size, method, guard)
					if result.Success {
						freed += result.BytesFreed
					} else {
						lastErr = result.Error
					}
				}
				return freed, lastErr
			}

			if interactiveUI {
				return tui.RunSelect(allowed, del, method == deleter.DryRun)
			}

			if interactive && method != deleter.DryRun {
				if !rep.AskConfirmation(fmt.Sprintf("Proceed with cleaning %d projects?", len(allowed))) {
					rep.PrintInfo("cancelled")
					return nil
				}
			}

			results := make([]deleter.Result, 0, len(allowed))
			total := int64(len(allowed))
			for i, p := range allowed {
				freed, err := del(p)
				results = append(results, deleter.Result{Success: err == nil, BytesFreed: freed, Error: err})
				rep.PrintProgress(int64(i+1), total, p.Name)
			}
			rep.PrintDeletionResults(method, results)
			return nil
		},
	}
	cmd.Flags().StringVar(&protectionFlag, "protection", "block", "protection level: none|warn|block|paranoid")
	cmd.Flags().StringVar(&deleteMethod, "method", "trash", "deletion method: trash|permanent|dry-run")
	cmd.Flags().BoolVar(&force, "force", false, "bypass the protection gate (always recorded in the reported reasons)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", true, "ask for confirmation before deleting")
	cmd.Flags().BoolVar(&interactiveUI, "ui", false, "use the interactive bubbletea selection flow instead of batch confirmation")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the scan cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the cached projects and whole-cache validity",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := reporter.New(verbose)
			c := cache.Load()
			rep.PrintInfo(fmt.Sprintf("cache valid: %v, %d entries", c.IsValid(), len(c.Projects)))
			rep.PrintScanSummary(model.ScanResult{Projects: c.GetAllValidProjects()})
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Overwrite the persisted scan cache with an empty one",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := reporter.New(verbose)
			c := cache.New()
			if err := c.Save(); err != nil {
				rep.PrintError(err.Error())
				return err
			}
			rep.PrintSuccess("cache cleared")
			return nil
		},
	})
	return cmd
}
