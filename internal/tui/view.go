package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// DefaultAccent 是原版“黑客绿”主题的主色。
const DefaultAccent = "#00FF44"

type styles struct {
	accent lipgloss.Style
	title  lipgloss.Style
	pane   lipgloss.Style
	status lipgloss.Style
	faint  lipgloss.Style
}

func newStyles(accent string) styles {
	if accent == "" {
		accent = DefaultAccent
	}
	ac := lipgloss.Color(accent)
	return styles{
		accent: lipgloss.NewStyle().Foreground(ac),
		title:  lipgloss.NewStyle().Bold(true).Foreground(ac).Padding(0, 1),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ac).
			Padding(0, 1).
			Foreground(ac),
		status: lipgloss.NewStyle().Foreground(ac).Padding(0, 1),
		faint:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5E6472")).Padding(0, 1),
	}
}

// renderScrollStatus 绘制滚动位置指示：进度条加 “首行/总行” 计数。
func renderScrollStatus(offset, total, viewportHeight, width int) string {
	maxScroll := total - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	percent := 100
	if maxScroll > 0 {
		percent = offset * 100 / maxScroll
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	counter := fmt.Sprintf(" %d/%d", offset, total)
	barWidth := width - runewidth.StringWidth(counter) - 2
	if barWidth < 4 {
		barWidth = 4
	}
	filled := barWidth * percent / 100
	if filled > barWidth {
		filled = barWidth
	}
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
	return bar + counter
}

// truncateLine 按显示宽度截断一行，不做折行（布局不支持 wrap）。
func truncateLine(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	w := 0
	out := make([]rune, 0, len(text))
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out)
}
