package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/weave/internal/kernel"
	"github.com/aretw0/weave/pkg/poly"
)

// Overlay contains dynamic data to visualize on the graph: the agents that
// ran during a trace and the last one that did.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of an agent's composition tree.
// Every composite points at its constituents. It applies semantic styling:
// - Leaf: [Rectangle]
// - Identity: ((Circle))
// - Branch: {Rhombus}
// - Fix: [[Subroutine]]
// - Trace: [/Parallelogram/]
// - Restriction, Glue: {{Hexagon}}
// Overlay styles (Visited/Current) match nodes by agent name.
func GenerateMermaid(a *poly.Agent, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	byName := make(map[string][]string)
	walk(&sb, a, "n0", byName)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Visited {
			for _, id := range byName[name] {
				if !seen[id] {
					seen[id] = true
					sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
				}
			}
		}
		for _, id := range byName[overlay.Current] {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", id))
		}
	}

	return sb.String()
}

func walk(sb *strings.Builder, a *poly.Agent, id string, byName map[string][]string) {
	tag := kernel.TagOf(a)
	opener, closer := shape(tag)
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label(a), closer))
	byName[a.Name()] = append(byName[a.Name()], id)

	for i, child := range kernel.Children(a) {
		childID := fmt.Sprintf("%s_%d", id, i)
		walk(sb, child, childID, byName)

		arrow := "-->"
		switch {
		case tag == kernel.TagBranch && i == 0:
			arrow = `-- "then" -->`
		case tag == kernel.TagBranch:
			arrow = `-- "else" -->`
		case tag == kernel.TagFix:
			arrow = `-. "repeat" .->`
		case tag == kernel.TagSeq || tag == kernel.TagTensor || tag == kernel.TagFanout:
			arrow = fmt.Sprintf(`-- "%d" -->`, i+1)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", id, arrow, childID))
	}
}

func shape(tag kernel.Tag) (string, string) {
	switch tag {
	case kernel.TagIdentity:
		return "((", "))"
	case kernel.TagBranch:
		return "{", "}"
	case kernel.TagFix:
		return "[[", "]]"
	case kernel.TagTrace:
		return "[/", "/]"
	case kernel.TagRestrict, kernel.TagGlue:
		return "{{", "}}"
	}
	return "[", "]"
}

// label escapes double quotes for Mermaid.
func label(a *poly.Agent) string {
	return strings.ReplaceAll(a.Name(), "\"", "'")
}
