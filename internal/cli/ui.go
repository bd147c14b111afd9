package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/tree"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // roots, headings
	colorGreen  = lipgloss.Color("35")  // success, cached batches
	colorYellow = lipgloss.Color("220") // multi-inheritance, warnings
	colorRed    = lipgloss.Color("167") // failures
	colorBlue   = lipgloss.Color("75")  // addresses, commands
	colorWhite  = lipgloss.Color("255") // entity names, paths
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // ids, separators
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle renders tree roots and table headers.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders configured source names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink renders the server address.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim renders entity ids and secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders entity names and output paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning renders multi-inheritance markers and warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh  = lipgloss.NewStyle().Foreground(colorGray)
	styleLabel  = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Run Summary
// =============================================================================

// printStats prints the shape of a finished run on a single line.
func printStats(res *pipeline.Result) {
	fmt.Println(statsLine(res))
}

// statsLine summarizes a run: rows read, edges inferred, repaired
// multi-inheritance entities, roots, tree depth and whether the batch
// came from the cache. Counts that do not apply to the run are omitted.
func statsLine(res *pipeline.Result) string {
	var parts []string
	if res.Stats.RowCount > 0 {
		parts = append(parts, plural(res.Stats.RowCount, "row"))
	}
	parts = append(parts, plural(len(res.Edges), "edge"))
	if n := len(res.MultiInheritance); n > 0 {
		parts = append(parts, fmt.Sprintf("%d multi-inheritance", n))
	}
	parts = append(parts, plural(len(res.Roots), "root"))
	if d := tree.Depth(res.Forest); d > 0 {
		parts = append(parts, fmt.Sprintf("depth %d", d))
	}

	rendered := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		rendered = append(rendered, StyleDim.Render(p))
	}
	if res.CacheInfo.FetchHit {
		rendered = append(rendered, styleCached.Render("cached"))
	} else {
		rendered = append(rendered, styleFresh.Render("fresh"))
	}
	return "  " + strings.Join(rendered, StyleDim.Render(" · "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// reportMulti prints multi-inheritance and coverage warnings.
func reportMulti(res *pipeline.Result) {
	if n := len(res.MultiInheritance); n > 0 {
		printDetail("%d multi-inheritance entities repaired", n)
	}
	if n := len(res.Uncovered); n > 0 {
		printWarning("%d entities have children no smaller cell set covers", n)
	}
}
