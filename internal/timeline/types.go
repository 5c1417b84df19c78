package timeline

import "encoding/json"

const (
	DefaultVersion        = "pilot-v1"
	DefaultColor          = "#ffffff"
	DefaultGestureKind    = "nod"
	DefaultLaughIntensity = 0.6
	DefaultSceneID        = "stage"
	DefaultCamera         = "wide"

	// MinContainerSec is the canonical stage length reserved even for short
	// scripts (22 minutes).
	MinContainerSec = 1320.0
)

const (
	EventLine    = "line"
	EventGesture = "gesture"
	EventLaugh   = "laugh"
)

// StageScript is the compiled timeline document.
type StageScript struct {
	Version     string      `json:"version"`
	IntroEndSec float64     `json:"introEndSec"`
	Characters  []Character `json:"characters"`
	Scenes      []Scene     `json:"scenes"`
	Events      []Event     `json:"events"`
}

type Character struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

type Scene struct {
	ID      string  `json:"id"`
	FromSec float64 `json:"fromSec"`
	ToSec   float64 `json:"toSec"`
	Camera  string  `json:"camera"`
}

// Event is one compiled timeline entry: LineEvent, GestureEvent or
// LaughEvent. Consumers switch on the concrete type.
type Event interface {
	Type() string
	StartSec() float64
	compiled()
}

type LineEvent struct {
	FromSec float64 `json:"fromSec"`
	ToSec   float64 `json:"toSec"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

func (LineEvent) Type() string        { return EventLine }
func (e LineEvent) StartSec() float64 { return e.FromSec }
func (LineEvent) compiled()           {}

func (e LineEvent) MarshalJSON() ([]byte, error) {
	type body LineEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		body
	}{EventLine, body(e)})
}

type GestureEvent struct {
	AtSec  float64 `json:"atSec"`
	Target string  `json:"target"`
	Kind   string  `json:"kind"`
}

func (GestureEvent) Type() string        { return EventGesture }
func (e GestureEvent) StartSec() float64 { return e.AtSec }
func (GestureEvent) compiled()           {}

func (e GestureEvent) MarshalJSON() ([]byte, error) {
	type body GestureEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		body
	}{EventGesture, body(e)})
}

type LaughEvent struct {
	AtSec     float64 `json:"atSec"`
	Intensity float64 `json:"intensity"`
}

func (LaughEvent) Type() string        { return EventLaugh }
func (e LaughEvent) StartSec() float64 { return e.AtSec }
func (LaughEvent) compiled()           {}

func (e LaughEvent) MarshalJSON() ([]byte, error) {
	type body LaughEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		body
	}{EventLaugh, body(e)})
}
