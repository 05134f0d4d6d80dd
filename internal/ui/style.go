package ui

import "github.com/fatih/color"

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// KindBadge returns a short colored tag for an item kind.
func KindBadge(kind string) string {
	switch kind {
	case "task":
		return BoldCyan("[task]")
	case "decision":
		return BoldMagenta("[decision]")
	case "note":
		return Dim("[note]")
	case "component":
		return Yellow("[component]")
	default:
		return Dim("[" + kind + "]")
	}
}

// StatusIcon returns a colored icon for an item status.
func StatusIcon(status string) string {
	switch status {
	case "complete", "selected":
		return Green("✓")
	case "in-progress":
		return Cyan("●")
	case "blocked":
		return Red("✗")
	case "pending", "open":
		return Yellow("◌")
	default:
		return Dim("◌")
	}
}
