package cli

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette for broad terminal compatibility.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleCode    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stylePath    = lipgloss.NewStyle().Bold(true)
)

func styled(style lipgloss.Style, s string) string {
	if !EnableColors() {
		return s
	}
	return style.Render(s)
}

// Error styles an error label.
func Error(s string) string { return styled(styleError, s) }

// Warning styles a warning label.
func Warning(s string) string { return styled(styleWarning, s) }

// Success styles a success message.
func Success(s string) string { return styled(styleSuccess, s) }

// Help styles a help suggestion.
func Help(s string) string { return styled(styleHelp, s) }

// Info styles informational text.
func Info(s string) string { return styled(styleInfo, s) }

// Code styles an error code such as E3001.
func Code(s string) string { return styled(styleCode, s) }

// Header styles a table header.
func Header(s string) string { return styled(styleHeader, s) }

// Dim styles muted text.
func Dim(s string) string { return styled(styleDim, s) }

// FilePath styles a file path.
func FilePath(s string) string { return styled(stylePath, s) }
