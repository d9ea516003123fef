package ui

import (
	"fmt"
	"strings"

	"humblesync/internal/downloads"
)

const (
	symbolCompleted   = "✓"
	symbolDownloading = "⏳"
	symbolQueued      = "🕒"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	switch m.currentView {
	case viewDetail:
		m.renderDetail(&b)
	default:
		m.renderBundles(&b)
	}
	m.renderNotices(&b)
	m.renderFooter(&b)
	return b.String()
}

func (m Model) renderBundles(b *strings.Builder) {
	b.WriteString(m.styles.Title.Render("Humble Bundle Library"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("  " + m.spin.View() + " loading bundles...\n")
		return
	}
	if len(m.bundles) == 0 {
		b.WriteString(m.styles.MutedText.Render("  No bundles found. Press r to refresh."))
		b.WriteString("\n")
		return
	}

	for i, bundle := range m.bundles {
		line := "  " + bundle.Name
		if i == m.selectedBundle {
			line = m.styles.Selected.Render("> " + bundle.Name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m Model) renderDetail(b *strings.Builder) {
	if m.contents == nil {
		return
	}
	details := m.contents.Details

	b.WriteString(m.styles.Title.Render(details.Name))
	b.WriteString("\n")

	var meta []string
	if details.Purchased != "" {
		meta = append(meta, "Purchased "+details.Purchased)
	}
	if details.Amount != "" {
		meta = append(meta, details.Amount)
	}
	if details.TotalSize != "" {
		meta = append(meta, details.TotalSize)
	}
	if len(meta) > 0 {
		b.WriteString(m.styles.MutedText.Render("  " + strings.Join(meta, " · ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.loading {
		b.WriteString("  " + m.spin.View() + " loading...\n")
		return
	}

	if len(m.items) == 0 && len(details.Keys) == 0 {
		b.WriteString(m.styles.MutedText.Render("  Nothing left to download."))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		marker := "  "
		name := item.Name
		if i == m.selectedItem {
			marker = "> "
			name = m.styles.Selected.Render(name)
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", marker, name, m.styles.MutedText.Render(item.Size)))
		b.WriteString("      " + m.renderFormats(item, i == m.selectedItem) + "\n")
	}

	if len(details.Keys) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Title.Render("Keys"))
		b.WriteString("\n")
		for _, key := range details.Keys {
			status := m.styles.MutedText.Render("unredeemed")
			if key.Redeemed {
				status = m.styles.SuccessText.Render("redeemed")
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", key.Name, status))
		}
	}
}

// renderFormats shows each format with its download status. The selected
// format of the selected item is bracketed to show what enter will fetch.
func (m Model) renderFormats(item *downloads.ItemState, selected bool) string {
	parts := make([]string, 0, len(item.Formats()))
	for _, format := range item.Formats() {
		label := format
		switch item.Status(format) {
		case downloads.StatusCompleted:
			label = m.styles.SuccessText.Render(format + " " + symbolCompleted)
		case downloads.StatusDownloading:
			label = m.styles.WarningText.Render(format + " " + symbolDownloading)
		case downloads.StatusQueued:
			label = m.styles.InfoText.Render(format + " " + symbolQueued)
		}
		if selected && format == item.Selected() {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderNotices(b *strings.Builder) {
	if len(m.notices) == 0 {
		return
	}
	b.WriteString("\n")
	for _, n := range m.notices {
		style := m.styles.InfoText
		switch n.severity {
		case downloads.SeveritySuccess:
			style = m.styles.SuccessText
		case downloads.SeverityWarning:
			style = m.styles.WarningText
		case downloads.SeverityError:
			style = m.styles.DangerText
		}
		b.WriteString("  " + style.Render(n.text) + "\n")
	}
}

func (m Model) renderFooter(b *strings.Builder) {
	stats := m.queue.Snapshot()
	counters := fmt.Sprintf("Active %d/%d · Queued %d", stats.Active, stats.MaxConcurrent, stats.Queued)

	var help string
	switch m.currentView {
	case viewDetail:
		help = "↑/↓ select · ←/→ format · enter download · esc back · q quit"
	default:
		help = "↑/↓ select · enter open · r refresh · q quit"
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(counters + "   " + help))
	b.WriteString("\n")
}
