package views

// Variant selects the base look of a badge
type Variant int

const (
	VariantOutline Variant = iota
	VariantSolid
)

// ParseVariant maps a config value onto a Variant, defaulting to outline
func ParseVariant(s string) Variant {
	if s == "solid" {
		return VariantSolid
	}
	return VariantOutline
}

// Badge is a single label to draw
type Badge struct {
	Label    string
	Variant  Variant
	Active   bool
	Disabled bool
	Focused  bool
}

// Render draws a badge. The rendered width depends only on the label and
// variant, never on the active/disabled/focused state.
func (s BadgeStyles) Render(b Badge) string {
	style := s.Outline
	if b.Variant == VariantSolid {
		style = s.Solid
	}
	if b.Active {
		style = style.
			Background(s.Active.GetBackground()).
			Foreground(s.Active.GetForeground()).
			Bold(s.Active.GetBold())
	}
	if b.Focused {
		style = style.Inherit(s.Focused)
	}
	if b.Disabled {
		style = style.Inherit(s.Disabled)
	}
	return style.Render(b.Label)
}
