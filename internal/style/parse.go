package style

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf16"
)

const DefaultColor = "#000000"

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseColor maps free text to a canonical #RRGGBB colour. Hex input passes
// through uppercased; unknown text degrades to black.
func ParseColor(input string) string {
	if hexColorRegex.MatchString(input) {
		return strings.ToUpper(input)
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	if hex, ok := colorIndex[normalized]; ok {
		return hex
	}

	for _, p := range colorPresets {
		if textLen(p.Key) > 1 && strings.Contains(normalized, p.Key) {
			return p.Hex
		}
	}

	return DefaultColor
}

// ParseStyle returns the preset whose key is the longest one contained in the
// input. Keys of equal length keep table order.
func ParseStyle(input string) StylePreset {
	normalized := strings.ToLower(input)
	for _, key := range styleKeys {
		if strings.Contains(normalized, key) {
			return clonePreset(styleByKey[key])
		}
	}
	return DefaultStylePreset()
}

func DefaultStylePreset() StylePreset {
	return StylePreset{Type: FlatFill, Stroke: 0, Modifiers: []string{"扁平设计"}}
}

const fallbackVisual = "清晰可识别的图标"

// ParseSubject resolves a subject name. Exact matches win over substring
// matches; unknown subjects become a generic UI icon recipe.
func ParseSubject(input string) Subject {
	normalized := strings.ToLower(strings.TrimSpace(input))

	if p, ok := subjectIndex[normalized]; ok {
		return subjectFromPreset(input, p)
	}
	if p, ok := subjectIndex[input]; ok {
		return subjectFromPreset(input, p)
	}

	for _, p := range subjectPresets {
		if textLen(p.Key) > 1 && strings.Contains(normalized, p.Key) {
			return subjectFromPreset(input, p)
		}
	}

	return Subject{
		Original: input,
		English:  input,
		Category: CategoryGeneral,
		Visual:   fallbackVisual,
		Kind:     UIIcon,
	}
}

func subjectFromPreset(input string, p subjectPreset) Subject {
	kind := p.Kind
	if kind == "" {
		kind = UIIcon
	}
	return Subject{
		Original: input,
		English:  p.English,
		Category: p.Category,
		Visual:   p.Visual,
		Kind:     kind,
	}
}

func sortedStyleKeys(list []stylePresetEntry) []string {
	keys := make([]string, 0, len(list))
	for _, e := range list {
		keys = append(keys, e.Key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return textLen(keys[i]) > textLen(keys[j])
	})
	return keys
}

func clonePreset(p StylePreset) StylePreset {
	p.Modifiers = append([]string(nil), p.Modifiers...)
	return p
}

// textLen counts UTF-16 code units, the unit preset key lengths are defined in.
func textLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16RuneLen(r)
	}
	return n
}

func utf16RuneLen(r rune) int {
	if utf16.IsSurrogate(r) || r < 0x10000 {
		return 1
	}
	return 2
}
