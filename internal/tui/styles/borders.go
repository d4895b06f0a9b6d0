package styles

import "github.com/charmbracelet/lipgloss"

// RoundedBorder frames dashboard panels.
var RoundedBorder = lipgloss.RoundedBorder()

// ThinBorder frames inline cards such as KPI tiles.
var ThinBorder = lipgloss.NormalBorder()

// HeavyBorder marks the focused form.
var HeavyBorder = lipgloss.ThickBorder()
