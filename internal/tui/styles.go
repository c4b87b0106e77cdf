package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	successStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))

	heroAccentColor        = lipgloss.Color("#4f7cff")
	heroInkColor           = lipgloss.Color("#0b1433")
	heroTextColor          = lipgloss.Color("#eef2ff")
	heroSecondaryTextColor = lipgloss.Color("#93b4ff")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroInkColor).Padding(1, 2)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	formBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(1, 2)
	activeTabStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroSecondaryTextColor).Padding(0, 2)
	inactiveTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 2)
	userLabelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))
	modelLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(heroSecondaryTextColor)
	correctStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c"))
	incorrectStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e06c75"))
	chosenStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8ecae6"))
	disabledStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroInkColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#050a1a"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)

	difficultyStyles = map[string]lipgloss.Style{
		"Easy":   lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("#ebcb8b")),
		"Hard":   lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75")),
	}

	logoArtLines = []string{
		"███████╗ ████████╗ ██╗   ██╗ ██████╗  ██╗   ██╗  ██████╗  ███████╗ ███╗   ██╗ ██╗ ██╗   ██╗ ███████╗ ",
		"██╔════╝ ╚══██╔══╝ ██║   ██║ ██╔══██╗ ╚██╗ ██╔╝ ██╔════╝  ██╔════╝ ████╗  ██║ ██║ ██║   ██║ ██╔════╝ ",
		"███████╗    ██║    ██║   ██║ ██║  ██║  ╚████╔╝  ██║  ███╗ █████╗   ██╔██╗ ██║ ██║ ██║   ██║ ███████╗ ",
		"╚════██║    ██║    ██║   ██║ ██║  ██║   ╚██╔╝   ██║   ██║ ██╔══╝   ██║╚██╗██║ ██║ ██║   ██║ ╚════██║ ",
		"███████║    ██║    ╚██████╔╝ ██████╔╝    ██║    ╚██████╔╝ ███████╗ ██║ ╚████║ ██║ ╚██████╔╝ ███████║ ",
		"╚══════╝    ╚═╝     ╚═════╝  ╚═════╝     ╚═╝     ╚═════╝  ╚══════╝ ╚═╝  ╚═══╝ ╚═╝  ╚═════╝  ╚══════╝ ",
	}
)
