package cleaner

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Background(lipgloss.Color("transparent")).
			Bold(true).
			Padding(0, 1)

	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F55")).Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("#0AF")).
			Foreground(lipgloss.Color("#FFF"))

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0AF"))

	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#334455"))

	disabledStyle = buttonStyle.Copy().Foreground(lipgloss.Color("#555"))

	previewStyle = lipgloss.NewStyle().
			MarginLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#334455"))
)
