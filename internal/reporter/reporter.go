// Package reporter is the CLI collaborator's output formatting layer:
// it renders ScanResults, protection decisions, and deletion results
// for a terminal. It holds no core logic of its own (spec.md §10.1:
// "the core packages do not log by themselves").
//
// Styling is carried over verbatim from the teacher's reporter.go
// (lipgloss palette, bubbles progress bar, the table/box layout), only
// re-pointed from cleaner.CleanTarget/config.SafetyLevel at
// model.Project/protection.Check/deleter.Result.
package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/arjunvg/devclean/internal/deleter"
	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/internal/protection"
	"github.com/arjunvg/devclean/pkg/fsutil"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#06B6D4")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	dangerColor    = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	successStyle  = lipgloss.NewStyle().Foreground(successColor)
	warningStyle  = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle    = lipgloss.NewStyle().Foreground(dangerColor)
	infoStyle     = lipgloss.NewStyle().Foreground(secondaryColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)

	headerBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2).
			Align(lipgloss.Center)
)

// Reporter renders scan/protection/deletion output to stdout.
type Reporter struct {
	verbose  bool
	progress progress.Model
}

// New returns a Reporter. verbose controls whether per-project detail
// and failure breakdowns are printed alongside summaries.
func New(verbose bool) *Reporter {
	return &Reporter{
		verbose: verbose,
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
	}
}

// PrintHeader prints the application banner.
func (r *Reporter) PrintHeader() {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("devclean"),
		subtitleStyle.Render("Developer disk-cleanup engine"),
	)
	fmt.Println()
	fmt.Println(headerBox.Render(content))
	fmt.Println()
}

// PrintScanSummary prints a table of detected projects grouped by kind,
// largest first, plus scan stats.
func (r *Reporter) PrintScanSummary(res model.ScanResult) {
	fmt.Println(warningStyle.Render("Scan results:\n"))

	type row struct {
		kind  string
		count int
		size  string
	}

	order := make([]string, 0)
	byKind := make(map[string][]model.Project)
	for _, p := range res.Projects {
		if _, ok := byKind[p.Kind.DisplayName]; !ok {
			order = append(order, p.Kind.DisplayName)
		}
		byKind[p.Kind.DisplayName] = append(byKind[p.Kind.DisplayName], p)
	}

	var rows []row
	var total int64
	for _, kind := range order {
		projects := byKind[kind]
		var size int64
		for _, p := range projects {
			size += p.CleanableSize
		}
		total += size
		rows = append(rows, row{kind: kind, count: len(projects), size: fsutil.FormatBytes(size)})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	fmt.Printf("%s%s%s\n",
		headerStyle.Width(20).Render("KIND"),
		headerStyle.Width(10).Align(lipgloss.Right).Render("PROJECTS"),
		headerStyle.Width(12).Align(lipgloss.Right).Render("SIZE"),
	)
	fmt.Println(mutedStyle.Render(strings.Repeat("─", 44)))

	for _, row := range rows {
		fmt.Printf("%s%s%s\n",
			cellStyle.Width(20).Render(row.kind),
			cellStyle.Width(10).Align(lipgloss.Right).Render(fsutil.FormatCount(int64(row.count))),
			cellStyle.Width(12).Align(lipgloss.Right).Render(row.size),
		)
	}

	fmt.Println(mutedStyle.Render(strings.Repeat("─", 44)))
	fmt.Printf("%s%s%s\n",
		titleStyle.Padding(0, 1).Width(20).Render("Total"),
		successStyle.Padding(0, 1).Width(10).Align(lipgloss.Right).Render(fsutil.FormatCount(int64(len(res.Projects)))),
		successStyle.Padding(0, 1).Width(12).Align(lipgloss.Right).Render(fsutil.FormatBytes(total)),
	)

	fmt.Printf("\n%s directories scanned in %s\n",
		mutedStyle.Render(fsutil.FormatCount(res.DirectoriesScanned)),
		mutedStyle.Render(fsutil.FormatDuration(res.Duration)),
	)
	if res.Cancelled {
		fmt.Println(warningStyle.Render("scan was cancelled; results are partial"))
	}
	if len(res.ErrorsEncountered) > 0 {
		fmt.Printf("%s\n", warningStyle.Render(fmt.Sprintf("%d directories could not be read", len(res.ErrorsEncountered))))
	}
	fmt.Println()
}

// PrintProjectDetails prints one line per project when verbose.
func (r *Reporter) PrintProjectDetails(projects []model.Project) {
	if !r.verbose {
		return
	}
	fmt.Println(warningStyle.Render("\nDetailed breakdown:\n"))
	for _, p := range projects {
		fmt.Printf("  %s %s - %s (%s)\n",
			p.Kind.Icon,
			p.Name,
			successStyle.Render(fsutil.FormatBytes(p.CleanableSize)),
			mutedStyle.Render(p.Root),
		)
	}
	fmt.Println()
}

// PrintProgress renders a simple [current/total] progress bar for the
// non-interactive clean path, one line per project deleted (the
// bubbletea program in internal/tui handles the --ui case, and the
// scan phase's directory count has no fixed total to render against).
func (r *Reporter) PrintProgress(current, total int64, description string) {
	var percent float64
	if total > 0 {
		percent = float64(current) / float64(total)
	}
	bar := r.progress.ViewAs(percent)
	fmt.Printf("\r%s %s [%s/%s]", description, bar, fsutil.FormatCount(current), fsutil.FormatCount(total))
	if current >= total {
		fmt.Println()
	}
}

// PrintProtectionDenied explains why a project's artifacts were
// skipped by the Protection Gate.
func (r *Reporter) PrintProtectionDenied(p model.Project, check protection.Check) {
	fmt.Printf("%s %s\n", errorStyle.Render("blocked:"), p.Root)
	for _, reason := range check.Reasons {
		fmt.Printf("  %s %s\n", mutedStyle.Render("-"), reason)
	}
}

// PrintDeletionResults summarizes a batch of DeletePath results.
func (r *Reporter) PrintDeletionResults(method deleter.Method, results []deleter.Result) {
	if method == deleter.DryRun {
		fmt.Println(infoStyle.Render("\nDry run complete - no files were deleted\n"))
	} else {
		fmt.Println(successStyle.Render("\nCleaning complete\n"))
	}

	var totalFreed int64
	var succeeded, failed int
	for _, res := range results {
		totalFreed += res.BytesFreed
		if res.Success {
			succeeded++
		} else {
			failed++
		}
	}

	verb := "freed"
	if method == deleter.DryRun {
		verb = "would be freed"
	}
	fmt.Printf("  space %s: %s\n", verb, successStyle.Render(fsutil.FormatBytes(totalFreed)))
	fmt.Printf("  items %s: %s\n", verb, successStyle.Render(fsutil.FormatCount(int64(succeeded))))
	if failed > 0 {
		fmt.Printf("  failures: %s\n", errorStyle.Render(fsutil.FormatCount(int64(failed))))
		if r.verbose {
			for _, res := range results {
				if !res.Success && res.Error != nil {
					fmt.Printf("  - %s\n", errorStyle.Render(res.Error.Error()))
				}
			}
		}
	}
	fmt.Println()
}

func (r *Reporter) PrintWarning(message string) { fmt.Println(warningStyle.Render("! " + message)) }
func (r *Reporter) PrintError(message string)   { fmt.Println(errorStyle.Render("x " + message)) }
func (r *Reporter) PrintSuccess(message string) { fmt.Println(successStyle.Render("✓ " + message)) }
func (r *Reporter) PrintInfo(message string)    { fmt.Println(infoStyle.Render("i " + message)) }

// AskConfirmation asks the user for a y/N confirmation.
func (r *Reporter) AskConfirmation(message string) bool {
	fmt.Printf("\n%s", warningStyle.Render(message+" [y/N]: "))
	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// PrintProtectionLegend explains the ordered ProtectionLevel scale.
func (r *Reporter) PrintProtectionLegend() {
	fmt.Println(warningStyle.Render("\nProtection levels:\n"))
	fmt.Printf("  %s - never blocks deletion\n", successStyle.Render("none"))
	fmt.Printf("  %s - allows, but reports risks\n", infoStyle.Render("warn"))
	fmt.Printf("  %s - denies on dirty/unpushed/stashed repos\n", warningStyle.Render("block"))
	fmt.Printf("  %s - denies on any risk, including no git at all\n", errorStyle.Render("paranoid"))
	fmt.Println()
}
