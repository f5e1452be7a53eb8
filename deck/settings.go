package deck

// Orientation selects the presentation canvas.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// VerticalAlign positions text within a box on the vertical axis.
type VerticalAlign string

const (
	AlignTop    VerticalAlign = "top"
	AlignMiddle VerticalAlign = "middle"
	AlignBottom VerticalAlign = "bottom"
)

// HorizontalAlign positions text within a box on the horizontal axis.
type HorizontalAlign string

const (
	AlignLeft   HorizontalAlign = "left"
	AlignCenter HorizontalAlign = "center"
	AlignRight  HorizontalAlign = "right"
)

// TextPosition pairs both alignment axes. Both fields are always
// populated in a usable Settings value.
type TextPosition struct {
	Vertical   VerticalAlign   `json:"vertical"`
	Horizontal HorizontalAlign `json:"horizontal"`
}

// Settings holds presentation-level design settings. Values supplied by
// callers may be partial; they enter the pipeline only through
// MergeSettings, which fills every unset field from DefaultSettings, so
// a half-populated settings value never reaches the layout or builder
// stage.
type Settings struct {
	Orientation     Orientation  `json:"orientation"`
	DefaultFont     string       `json:"default_font"`
	DefaultFontSize float64      `json:"default_font_size"`
	DefaultTextPos  TextPosition `json:"default_text_position"`
}

// DefaultSettings returns a fully populated Settings value.
func DefaultSettings() Settings {
	return Settings{
		Orientation:     Landscape,
		DefaultFont:     "Arial",
		DefaultFontSize: 14,
		DefaultTextPos: TextPosition{
			Vertical:   AlignTop,
			Horizontal: AlignLeft,
		},
	}
}

// MergeSettings overlays a possibly partial Settings value onto the
// defaults, field by field. Zero values in partial mean "unset" and
// keep the default. The two text-position axes merge independently.
func MergeSettings(partial Settings) Settings {
	merged := DefaultSettings()
	if partial.Orientation != "" {
		merged.Orientation = partial.Orientation
	}
	if partial.DefaultFont != "" {
		merged.DefaultFont = partial.DefaultFont
	}
	if partial.DefaultFontSize != 0 {
		merged.DefaultFontSize = partial.DefaultFontSize
	}
	if partial.DefaultTextPos.Vertical != "" {
		merged.DefaultTextPos.Vertical = partial.DefaultTextPos.Vertical
	}
	if partial.DefaultTextPos.Horizontal != "" {
		merged.DefaultTextPos.Horizontal = partial.DefaultTextPos.Horizontal
	}
	return merged
}
