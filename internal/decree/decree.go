// Package decree reads the free-text mission decree published by the admins.
//
// A decree lists the naipes as sections starting with "Naipe NN" followed by
// one line per mission, e.g.
//
//	Naipe 01 - Fogo
//	● 🔥 Acender a tocha (Pedra)
//	● 🌊 Atravessar o rio (Papel)
//
// The emoji in front of each mission becomes the glyph shown for that counter
// in the team summary.
package decree

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antonyforte/yuanshao-bot/internal/ledger"
)

var (
	naipeNumberRe = regexp.MustCompile(`^(\d{1,2})`)
	missionRe     = regexp.MustCompile(`● ([^\s]+) .+? \((Pedra|Papel|Tesoura)\)`)
)

// Index maps (naipe, kind) to the emoji the decree uses for it
type Index struct {
	emojis map[int]map[ledger.Kind]string
}

// Parse builds the emoji index of a decree. Sections that do not parse are skipped.
func Parse(text string) *Index {
	idx := &Index{emojis: make(map[int]map[ledger.Kind]string)}

	sections := strings.Split(text, "Naipe ")
	for _, section := range sections[1:] {
		lineEnd := strings.IndexByte(section, '\n')
		if lineEnd < 0 {
			continue
		}
		caps := naipeNumberRe.FindStringSubmatch(section[:lineEnd])
		if caps == nil {
			continue
		}
		n, err := strconv.Atoi(caps[1])
		if err != nil {
			continue
		}

		glyphs := make(map[ledger.Kind]string)
		for _, m := range missionRe.FindAllStringSubmatch(section[lineEnd:], -1) {
			kind, err := ledger.ParseKind(m[2])
			if err != nil {
				continue
			}
			glyphs[kind] = strings.TrimSpace(m[1])
		}
		idx.emojis[n] = glyphs
	}

	return idx
}

// Glyph returns the decree emoji for a counter, or the default glyph
func (idx *Index) Glyph(index int, k ledger.Kind) string {
	if idx != nil {
		if g, ok := idx.emojis[index][k]; ok && g != "" {
			return g
		}
	}
	return ledger.DefaultGlyph(k)
}

// Len returns the number of naipe sections found
func (idx *Index) Len() int {
	return len(idx.emojis)
}

const (
	splitMarker = "Naipe 11"
	firstTitle  = "Escutem todos o meu decreto! (Parte 1/2)\n\n"
	secondTitle = "Escutem todos o meu decreto! (Parte 2/2)\n\n"
)

// Split breaks the decree into the two announcements sent to the chat.
// The second part starts at the first line mentioning "Naipe 11".
func Split(text string) (string, string) {
	var first, second strings.Builder
	first.WriteString(firstTitle)
	second.WriteString(secondTitle)

	inSecond := false
	for _, line := range strings.Split(text, "\n") {
		if !inSecond && strings.Contains(line, splitMarker) {
			inSecond = true
		}
		if inSecond {
			second.WriteString(line)
			second.WriteByte('\n')
		} else {
			first.WriteString(line)
			first.WriteByte('\n')
		}
	}

	return first.String(), second.String()
}
