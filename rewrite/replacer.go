package rewrite

import "strings"

// Substitute expands template against the captures of m. A sigil followed by
// an identifier is replaced by the first capture with that name; references
// to unknown names are copied through unchanged.
func Substitute(template string, m *Match, sigil string) string {
	var sb strings.Builder
	sb.Grow(len(template))
	writeSubstitution(&sb, template, m, sigil)
	return sb.String()
}

func writeSubstitution(sb *strings.Builder, template string, m *Match, sigil string) {
	if sigil == "" {
		sb.WriteString(template)
		return
	}
	for i := 0; i < len(template); {
		k := strings.Index(template[i:], sigil)
		if k < 0 {
			sb.WriteString(template[i:])
			return
		}
		sb.WriteString(template[i : i+k])

		nameStart := i + k + len(sigil)
		nameEnd := scanIdent(template, nameStart)
		name := template[nameStart:nameEnd]
		if v, ok := m.Lookup(name); ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(sigil)
			sb.WriteString(name)
		}
		i = nameEnd
	}
}
