package script

// Spec is a parsed show script.
type Spec struct {
	ID          string       `json:"id"`
	Cast        []CastMember `json:"cast"`
	Lines       []Line       `json:"lines" validate:"min=1,dive"`
	StageEvents []StageEvent `json:"-"`
	Scenes      []Scene      `json:"scenes"`
	IntroEndSec float64      `json:"intro_end_sec"`
}

// CastMember is a speaking or gesturing character. ID joins Line.Speaker and
// Gesture.Target.
type CastMember struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

// Line is one timed piece of dialogue.
type Line struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	FromSec float64 `json:"from_sec"`
	ToSec   float64 `json:"to_sec" validate:"gtfield=FromSec"`

	// T maps language code to translated text.
	T map[string]string `json:"t,omitempty"`
}

// Duration is the authored slot length in seconds.
func (l Line) Duration() float64 {
	return l.ToSec - l.FromSec
}

// Translation returns the untrimmed translation for lang, if any.
func (l Line) Translation(lang string) (string, bool) {
	text, ok := l.T[lang]
	return text, ok
}

// Scene is an authored camera cut. Scenes with ToSec <= FromSec are ignored
// by the compiler rather than rejected.
type Scene struct {
	ID      string  `json:"id"`
	FromSec float64 `json:"from_sec"`
	ToSec   float64 `json:"to_sec"`
	Camera  string  `json:"camera"`
}

// Valid reports whether the scene spans a positive interval.
func (s Scene) Valid() bool {
	return s.ToSec > s.FromSec
}

// StageEvent is a non-dialogue point event. The set of implementations is
// closed: Gesture and Laugh.
type StageEvent interface {
	At() float64
	stageEvent()
}

// Gesture is a character animation cue. Empty Kind means the default.
type Gesture struct {
	AtSec  float64 `json:"at_sec"`
	Target string  `json:"target"`
	Kind   string  `json:"kind"`
}

func (g Gesture) At() float64 { return g.AtSec }

func (Gesture) stageEvent() {}

// Laugh is an audience reaction cue. Nil Intensity means the default.
type Laugh struct {
	AtSec     float64  `json:"at_sec"`
	Intensity *float64 `json:"intensity"`
}

func (l Laugh) At() float64 { return l.AtSec }

func (Laugh) stageEvent() {}

const (
	EventTypeGesture = "gesture"
	EventTypeLaugh   = "laugh"
)

// Speakers returns the distinct speaker ids in first-appearance order.
func (s *Spec) Speakers() []string {
	seen := make(map[string]struct{}, len(s.Cast))
	speakers := make([]string, 0, len(s.Cast))
	for _, line := range s.Lines {
		if _, ok := seen[line.Speaker]; ok {
			continue
		}
		seen[line.Speaker] = struct{}{}
		speakers = append(speakers, line.Speaker)
	}
	return speakers
}
