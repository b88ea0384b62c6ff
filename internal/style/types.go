package style

import "strings"

type Type string

const (
	FlatLine     Type = "flat-line"
	FlatFill     Type = "flat-fill"
	Soft3D       Type = "3d-soft"
	Glossy3D     Type = "3d-glossy"
	Outline      Type = "outline"
	Glyph        Type = "glyph"
	Pixel        Type = "pixel"
	HandDrawn    Type = "hand-drawn"
	Neon         Type = "neon"
	Glassmorphic Type = "glassmorphic"
)

func (t Type) Is3D() bool {
	return strings.HasPrefix(string(t), "3d")
}

// IsLine reports whether the archetype is described by stroke rather than fill.
func (t Type) IsLine() bool {
	return t == FlatLine || t == Outline
}

type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
	QualityUltra    Quality = "ultra"
)

type Category string

const (
	CategoryNavigation    Category = "navigation"
	CategoryAction        Category = "action"
	CategoryEcommerce     Category = "ecommerce"
	CategoryFinance       Category = "finance"
	CategoryUser          Category = "user"
	CategorySocial        Category = "social"
	CategoryCommunication Category = "communication"
	CategorySystem        Category = "system"
	CategoryMedia         Category = "media"
	CategoryFile          Category = "file"
	CategoryUtility       Category = "utility"
	CategorySecurity      Category = "security"
	CategoryGeneral       Category = "general"
)

// Kind selects between strict UI glyphs and brand-style application icons.
type Kind string

const (
	UIIcon  Kind = "ui-icon"
	AppIcon Kind = "app-icon"
)

type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
	StrokeNone   StrokeStyle = "none"
)

type Color struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background"`
	Accent     string `json:"accent,omitempty"`
}

type Stroke struct {
	Width float64     `json:"width"`
	Style StrokeStyle `json:"style"`
}

// Params is the structured style model a prompt is compiled from.
// Field order matters: the JSON encoding feeds base seed derivation.
type Params struct {
	Type      Type     `json:"type"`
	Color     Color    `json:"color"`
	Stroke    Stroke   `json:"stroke"`
	Modifiers []string `json:"modifiers"`
	Quality   Quality  `json:"quality,omitempty"`
}

// Normalize enforces stroke.style == none iff stroke.width == 0 and
// guarantees a non-nil modifier list.
func (p Params) Normalize() Params {
	if p.Stroke.Width <= 0 {
		p.Stroke.Width = 0
		p.Stroke.Style = StrokeNone
	} else if p.Stroke.Style == "" || p.Stroke.Style == StrokeNone {
		p.Stroke.Style = StrokeSolid
	}
	p.Modifiers = append([]string{}, p.Modifiers...)
	if p.Type == "" {
		p.Type = FlatFill
	}
	return p
}

// SameStyle compares the fields that define visual identity for locking.
// Modifier order and content are ignored.
func (p Params) SameStyle(other Params) bool {
	return p.Type == other.Type &&
		strings.EqualFold(p.Color.Primary, other.Color.Primary) &&
		p.Stroke.Width == other.Stroke.Width
}

type Subject struct {
	Original string   `json:"original"`
	English  string   `json:"english"`
	Category Category `json:"iconType"`
	Visual   string   `json:"visual,omitempty"`
	Kind     Kind     `json:"iconKind"`
}

// PromptItem is one unit of work for the image generation API.
type PromptItem struct {
	Subject string `json:"subject"`
	Prompt  string `json:"prompt"`
	Seed    int64  `json:"seed"`
}
