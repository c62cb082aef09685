package contexts

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/charmbracelet/lipgloss"
)

// renderContexts writes one block per context module in compilation order.
func renderContexts(comp *bundler.Compilation, opts *contextsOptions) string {
	var sb strings.Builder

	idStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	staticStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	scannedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	criticalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("242")).
		Italic(true)

	listed := 0

	for _, m := range comp.Contexts {
		if opts.onlyStatic && !m.Overridden {
			continue
		}
		listed++

		sb.WriteString(idStyle.Render(m.Identifier()))
		if m.Overridden {
			sb.WriteString(" " + staticStyle.Render("[static]"))
		} else {
			sb.WriteString(" " + scannedStyle.Render("[scanned]"))
		}
		sb.WriteString("\n")

		for _, edge := range m.Dependencies {
			line := fmt.Sprintf("  <- %s: %s", edge.Issuer, edge.Request)
			if edge.Critical {
				sb.WriteString(criticalStyle.Render(line+" (critical)") + "\n")
				continue
			}
			sb.WriteString(line + "\n")
		}

		if opts.showElements {
			for _, el := range m.Elements {
				sb.WriteString(fmt.Sprintf("  • %s\n", el.Request))
			}
		}
	}

	if listed == 0 {
		sb.WriteString(hintStyle.Render("No context modules found.") + "\n")
	}
	return sb.String()
}
