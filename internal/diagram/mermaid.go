package diagram

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/spigen/internal/registry"
)

// DiagramOptions controls Mermaid diagram generation.
type DiagramOptions struct {
	IncludeInit bool // include %%{init:}%% directive (for standalone .mmd files)
}

// GenerateMermaid produces a Mermaid classDiagram of the registered
// providers: one node per contract, one per implementation, and a
// realization edge for every registration. Order follows the registry.
func GenerateMermaid(entries []registry.Entry, opts DiagramOptions) string {
	var b strings.Builder

	if opts.IncludeInit {
		b.WriteString("%%{init: {'theme': 'base', 'themeVariables': {'primaryColor': '#ffffff', 'primaryBorderColor': '#cccccc', 'primaryTextColor': '#000000', 'lineColor': '#555555'}}%%\n")
	}
	b.WriteString("classDiagram")
	if len(entries) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString("    direction LR\n")
	b.WriteString("    classDef contractStyle fill:#2374ab,stroke:#1a5a8a,color:#fff,stroke-width:2px,font-weight:bold\n")
	b.WriteString("    classDef providerStyle fill:#4a9c6d,stroke:#357a50,color:#fff,stroke-width:2px")

	// Contracts section.
	for _, e := range entries {
		b.WriteString("\n")
		writeContractBlock(&b, e.Contract)
	}

	// Providers section; an implementation registered for several
	// contracts gets one node.
	var impls []string
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, impl := range e.Implementations {
			if !seen[impl] {
				seen[impl] = true
				impls = append(impls, impl)
			}
		}
	}
	b.WriteString("\n")
	for _, impl := range impls {
		b.WriteString("\n")
		writeProviderBlock(&b, impl)
	}

	// Relations section.
	b.WriteString("\n")
	for _, e := range entries {
		for _, impl := range e.Implementations {
			b.WriteString(fmt.Sprintf("\n    %s ..|> %s", NodeID(impl), NodeID(e.Contract)))
		}
	}

	// Style assignments section.
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("\n    cssClass \"%s\" contractStyle", NodeID(e.Contract)))
	}
	for _, impl := range impls {
		b.WriteString(fmt.Sprintf("\n    cssClass \"%s\" providerStyle", NodeID(impl)))
	}

	return b.String()
}

// sanitizeID replaces /, ., -, $ with _ in node identifiers.
func sanitizeID(s string) string {
	r := strings.NewReplacer("/", "_", ".", "_", "-", "_", "$", "_")
	return r.Replace(s)
}

// NodeID builds a sanitized node ID from a qualified type id.
func NodeID(id string) string {
	return sanitizeID(id)
}

// label keeps the qualified id readable; Mermaid labels cannot hold quotes.
func label(id string) string {
	return strings.ReplaceAll(id, `"`, "'")
}

// writeContractBlock writes a Mermaid class block for a contract.
func writeContractBlock(b *strings.Builder, contract string) {
	b.WriteString(fmt.Sprintf("    class %s[\"%s\"] {\n", NodeID(contract), label(contract)))
	b.WriteString("        <<interface>>\n")
	b.WriteString("    }")
}

// writeProviderBlock writes a Mermaid class block for an implementation.
func writeProviderBlock(b *strings.Builder, impl string) {
	b.WriteString(fmt.Sprintf("    class %s[\"%s\"] {\n", NodeID(impl), label(impl)))
	b.WriteString("    }")
}
