package graph

import (
	"fmt"
	"strings"

	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/registry"
)

// Overlay contains session state to visualize on top of the static graph.
type Overlay struct {
	VisitedMenus []string
	CurrentMenu  string
}

// GenerateMermaid produces a Mermaid flowchart (graph TD) of the menu graph.
// Shapes carry meaning:
// - the welcome menu: ((Circle))
// - terminal menus (no actions, no default): [[Subroutine]]
// - everything else: [Rectangle]
// Action edges are labeled with their trigger; default_next_menu edges with
// an asterisk. Edges into reserved destinations or remote URLs are dotted.
// If an overlay is provided, visited and current menus are styled.
func GenerateMermaid(menus *registry.Registry, welcome string, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range menus.Names() {
		menu, err := menus.Get(name)
		if err != nil {
			continue
		}
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		switch {
		case name == welcome:
			opener, closer = "((", "))"
		case menu.Actions.Len() == 0 && menu.DefaultNextMenu == "":
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(name), closer))

		menu.Actions.Range(func(act *domain.Action) bool {
			writeEdge(&sb, safeID, act.Next.Name, act.Trigger)
			return true
		})
		if menu.DefaultNextMenu != "" {
			writeEdge(&sb, safeID, menu.DefaultNextMenu, "*")
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedMenus {
			safeID := sanitizeMermaidID(name)
			if safeID != "" && !visitedSet[safeID] {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentMenu != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentMenu)))
		}
	}

	return sb.String()
}

func writeEdge(sb *strings.Builder, fromID, to, label string) {
	if to == "" {
		return
	}
	safeTo := sanitizeMermaidID(to)
	dotted := domain.IsReserved(to) || domain.NextMenu{Name: to}.IsURL()

	arrow := fmt.Sprintf("-- \"%s\" -->", escapeMermaidLabel(label))
	if dotted {
		arrow = fmt.Sprintf("-. \"%s\" .->", escapeMermaidLabel(label))
	}
	sb.WriteString(fmt.Sprintf("    %s %s %s\n", fromID, arrow, safeTo))
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
