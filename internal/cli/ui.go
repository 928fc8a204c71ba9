package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/degreetree/pkg/render"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// statusStyle colors a node label by completion status, using the same
// fills as the SVG renderer. The planned fill is too dark for a terminal.
func statusStyle(s tree.Status) lipgloss.Style {
	if s.OrPlanned() == tree.StatusPlanned {
		return lipgloss.NewStyle().Foreground(colorGray)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(render.StatusColors(s).Fill))
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Tree Summary
// =============================================================================

// statusOrder is the order statuses appear in summaries.
var statusOrder = []tree.Status{tree.StatusCompleted, tree.StatusInProgress, tree.StatusPlanned}

// treeStats summarizes a tree for the footer printed after each command.
type treeStats struct {
	courses  int
	links    int
	depth    int
	issues   int
	byStatus map[tree.Status]int
	cached   bool
}

// newTreeStats counts nodes by status. Unknown statuses count as planned.
func newTreeStats(nodes []tree.Node) treeStats {
	s := treeStats{courses: len(nodes), byStatus: make(map[tree.Status]int, len(statusOrder))}
	for _, n := range nodes {
		s.byStatus[n.Status.OrPlanned()]++
	}
	return s
}

// printStats prints tree statistics on a single line.
func printStats(s treeStats) {
	fmt.Println(statsLine(s))
}

func statsLine(s treeStats) string {
	sep := StyleDim.Render(" · ")
	line := "  " + StyleDim.Render(plural(s.courses, "course"))
	if s.links > 0 {
		line += sep + StyleDim.Render(plural(s.links, "link"))
	}
	if s.depth > 0 {
		line += sep + StyleDim.Render(fmt.Sprintf("depth %d", s.depth))
	}
	for _, st := range statusOrder {
		if n := s.byStatus[st]; n > 0 {
			line += sep + statusStyle(st).Render(fmt.Sprintf("%d %s", n, st))
		}
	}
	if s.issues > 0 {
		line += sep + StyleWarning.Render(plural(s.issues, "issue"))
	}

	if s.cached {
		return line + sep + styleCached.Render(iconCached)
	}
	return line + sep + styleComputed.Render(iconFresh)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printIssue prints a recovered structural problem and what the layout did
// about it.
func printIssue(issue tree.Issue) {
	printWarning("%s", issue.String())
	switch issue.Kind {
	case tree.IssueMissingParent:
		printDetail("node %d is drawn as a root", issue.Index)
	case tree.IssueCycle:
		printDetail("node %d is drawn as a root to break the cycle", issue.Index)
	default:
		printDetail("node %d is skipped", issue.Index)
	}
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
