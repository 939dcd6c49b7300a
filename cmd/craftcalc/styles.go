package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var envKeyReplacer = strings.NewReplacer("-", "_")

var (
	accentColor  = lipgloss.Color("#FFB347")
	successColor = lipgloss.Color("#4ECDC4")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)
