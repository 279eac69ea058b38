package decree

import (
	"strings"
	"testing"

	"github.com/antonyforte/yuanshao-bot/internal/ledger"
)

const sample = `Decreto do General

Naipe 01 - Fogo
● 🔥 Acender a tocha (Pedra)
● 🌊 Atravessar o rio (Papel)
● ⚔️ Vencer o duelo (Tesoura)

Naipe 2 - Agua
● 💧 Beber do poço (Papel)

Naipe XX - quebrado
● 🐉 Nunca lido (Pedra)

Naipe 11 - Vento
● 🌪 Dançar com o vento (Tesoura)
`

func TestParse(t *testing.T) {
	idx := Parse(sample)

	tests := []struct {
		naipe int
		kind  ledger.Kind
		want  string
	}{
		{1, ledger.Rock, "🔥"},
		{1, ledger.Paper, "🌊"},
		{1, ledger.Scissors, "⚔️"},
		{2, ledger.Paper, "💧"},
		{2, ledger.Rock, ledger.DefaultGlyph(ledger.Rock)},
		{11, ledger.Scissors, "🌪"},
		{22, ledger.Paper, ledger.DefaultGlyph(ledger.Paper)},
	}
	for _, tt := range tests {
		if got := idx.Glyph(tt.naipe, tt.kind); got != tt.want {
			t.Errorf("Glyph(%d, %s) = %q, want %q", tt.naipe, tt.kind, got, tt.want)
		}
	}

	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
}

func TestParseGarbageFallsBack(t *testing.T) {
	for _, text := range []string{"", "Naipe ", "Naipe 3", "no sections at all\n"} {
		idx := Parse(text)
		if got := idx.Glyph(3, ledger.Scissors); got != ledger.DefaultGlyph(ledger.Scissors) {
			t.Errorf("Parse(%q): glyph = %q", text, got)
		}
	}

	var nilIndex *Index
	if got := nilIndex.Glyph(1, ledger.Rock); got != ledger.DefaultGlyph(ledger.Rock) {
		t.Errorf("nil index glyph = %q", got)
	}
}

func TestSplit(t *testing.T) {
	first, second := Split(sample)

	if !strings.HasPrefix(first, firstTitle) || !strings.HasPrefix(second, secondTitle) {
		t.Fatalf("missing titles:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(first, "Naipe 01 - Fogo") || strings.Contains(first, "Naipe 11") {
		t.Errorf("unexpected first part:\n%s", first)
	}
	if !strings.Contains(second, "Naipe 11 - Vento") || strings.Contains(second, "Naipe 01") {
		t.Errorf("unexpected second part:\n%s", second)
	}
}
