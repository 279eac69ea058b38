package ledger

import (
	"fmt"
	"strings"
)

// Glyphs resolves the emoji shown next to a counter
type Glyphs interface {
	Glyph(index int, k Kind) string
}

// DefaultGlyph is used when the decree does not name an emoji for a counter
func DefaultGlyph(k Kind) string {
	switch k {
	case Paper:
		return "📜"
	case Scissors:
		return "✂️"
	default:
		return "🛡"
	}
}

type defaultGlyphs struct{}

func (defaultGlyphs) Glyph(_ int, k Kind) string { return DefaultGlyph(k) }

// Render formats the team summary shown by the team view commands
func Render(teamTitle string, l Ledger, glyphs Glyphs) string {
	if glyphs == nil {
		glyphs = defaultGlyphs{}
	}
	l.Normalize()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 **Banco de Dados do Time %s** 📊\n\n", teamTitle))
	sb.WriteString(fmt.Sprintf("Soldados: %d\n\n", l.Soldiers))
	sb.WriteString("Missões por Naipe:\n")

	for i, n := range l.Naipes[:NaipeCount] {
		index := i + 1
		parts := make([]string, 0, 3)
		for _, k := range Kinds() {
			parts = append(parts, fmt.Sprintf("%s %s: %d", glyphs.Glyph(index, k), k.Label(), n.Get(k)))
		}
		sb.WriteString(fmt.Sprintf("Naipe %d: %s\n", index, strings.Join(parts, " | ")))
	}

	return sb.String()
}
