package certpdf

import (
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Element type names recognized by the layout resolver.
const (
	ElementText     = "text"
	ElementVariable = "variable"
	ElementImage    = "image"
)

// ElementKind is the closed set of element behaviors. Unknown type names
// map to KindUnknown, which renders to nothing, so a malformed layout
// degrades instead of failing the whole document.
type ElementKind int

const (
	KindUnknown ElementKind = iota
	KindText
	KindVariable
	KindImage
)

// Element is one positioned visual unit within a template layout.
// X and Y are top-left page coordinates in pixels on the fixed
// 794x1123 canvas (A4 at 96 DPI).
type Element struct {
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
	Style   Style   `json:"style"`
}

// Kind maps the element's type name onto the closed behavior set.
func (e Element) Kind() ElementKind {
	switch e.Type {
	case ElementText:
		return KindText
	case ElementVariable:
		return KindVariable
	case ElementImage:
		return KindImage
	}
	return KindUnknown
}

// Style holds the optional visual attributes of an element. Every field
// may be absent; absent fields degrade to resolver defaults. Width and
// Height accept both JSON strings ("120px") and bare numbers, since the
// layout editor has emitted both over time.
type Style struct {
	Width      FlexString `json:"width,omitempty"`
	Height     FlexString `json:"height,omitempty"`
	FontSize   FlexString `json:"fontSize,omitempty"`
	FontFamily string     `json:"fontFamily,omitempty"`
	FontWeight string     `json:"fontWeight,omitempty"`
	Color      string     `json:"color,omitempty"`
	TextAlign  string     `json:"textAlign,omitempty"`
}

// FlexString decodes a JSON string, number, or null into a string.
// Any other JSON shape decodes to the empty string rather than failing,
// which keeps one odd style value from discarding its element.
type FlexString string

// UnmarshalJSON implements lenient decoding. It never returns an error.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*f = ""
		return nil
	}
	switch val := v.(type) {
	case string:
		*f = FlexString(val)
	case float64:
		*f = FlexString(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		*f = ""
	}
	return nil
}

// MarshalJSON emits the value as a plain JSON string.
func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// Layout is the structured document a template carries: an ordered list
// of elements plus an optional full-bleed background image reference.
// Element order is paint order; later elements cover earlier ones.
type Layout struct {
	Elements        []Element `json:"elements"`
	BackgroundImage string    `json:"backgroundImage,omitempty"`
}

// UnmarshalJSON decodes a layout leniently: elements that fail to decode
// are skipped individually instead of failing the whole layout.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var raw struct {
		Elements        []json.RawMessage `json:"elements"`
		BackgroundImage string            `json:"backgroundImage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.BackgroundImage = raw.BackgroundImage
	l.Elements = make([]Element, 0, len(raw.Elements))
	for _, rawEl := range raw.Elements {
		var el Element
		if err := json.Unmarshal(rawEl, &el); err != nil {
			continue
		}
		l.Elements = append(l.Elements, el)
	}
	return nil
}

// ParseLayout decodes layout JSON. It errors only when the top-level
// document is not valid JSON; individual malformed elements are dropped.
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Template is a named, reusable certificate layout. Templates outlive
// the events that reference them.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Layout    Layout    `json:"layout"`
	CreatedAt time.Time `json:"createdAt"`
}

// Context is the flat variable-name to display-value mapping used to
// fill a template. It is built fresh for every render and never persisted.
type Context map[string]string

// Event carries the event fields the rendering engine reads. How events
// are stored and managed is the caller's concern.
type Event struct {
	Title         string
	Date          time.Time
	Organizer     string
	Location      string
	Description   string
	Program       string
	EligibleHours float64
	SignatureFile string // filename under the uploads root, empty if none
	TemplateID    string // empty means no custom template is assigned
}

// Registration identifies one certificate recipient.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Attended  bool
}

// Input contains the parameters for one certificate render.
type Input struct {
	// Template selects the rendering path: nil uses the flow-layout
	// fallback document, non-nil uses the positioned layout engine.
	Template     *Template
	Event        Event
	Registration Registration

	// Context overrides the variable bindings. When nil the standard
	// context is built from Event and Registration.
	Context Context
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
	logger  *zap.Logger
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("certpdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithLogger sets the logger used for swallowed resolution failures.
// The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("certpdf: WithLogger logger must not be nil")
	}
	return func(s *Service) {
		s.cfg.logger = l
	}
}
