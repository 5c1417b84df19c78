package script

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"pilotcast/internal/services"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		validate = v
	})
	return validate
}

// Load reads and parses the script at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "script", "load", fmt.Sprintf("script %s does not exist", path), err)
		}
		return nil, services.Wrap(nil, "script", "load", "read script", err)
	}
	return Parse(data)
}

// Parse decodes a script, tolerating a leading UTF-8 byte order mark, and
// validates it. All failures carry services.ErrValidation.
func Parse(data []byte) (*Spec, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, services.Wrap(services.ErrValidation, "script", "parse", "decode script", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// UnmarshalJSON decodes the tagged stage_events union alongside the plain
// fields. Unknown event types are rejected.
func (s *Spec) UnmarshalJSON(data []byte) error {
	type plain Spec
	var raw struct {
		plain
		StageEvents []json.RawMessage `json:"stage_events"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Spec(raw.plain)
	s.StageEvents = make([]StageEvent, 0, len(raw.StageEvents))
	for i, msg := range raw.StageEvents {
		event, err := decodeStageEvent(msg)
		if err != nil {
			return fmt.Errorf("stage_events[%d]: %w", i, err)
		}
		s.StageEvents = append(s.StageEvents, event)
	}
	return nil
}

func decodeStageEvent(msg json.RawMessage) (StageEvent, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case EventTypeGesture:
		var g Gesture
		if err := json.Unmarshal(msg, &g); err != nil {
			return nil, err
		}
		return g, nil
	case EventTypeLaugh:
		var l Laugh
		if err := json.Unmarshal(msg, &l); err != nil {
			return nil, err
		}
		return l, nil
	case "":
		return nil, errors.New("missing type")
	default:
		return nil, fmt.Errorf("unknown type %q", head.Type)
	}
}

// Validate checks structural constraints: at least one line and every line
// ending strictly after it starts.
func (s *Spec) Validate() error {
	if len(s.Lines) == 0 {
		return services.Wrap(services.ErrValidation, "script", "validate", "script has no lines", nil)
	}
	if err := structValidator().Struct(s); err != nil {
		return services.Wrap(services.ErrValidation, "script", "validate", describe(err), nil)
	}
	return nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s %s", trimNamespace(fe.Namespace()), friendlyMessage(fe)))
	}
	return strings.Join(messages, "; ")
}

// trimNamespace drops the root type name: "Spec.lines[2].to_sec" -> "lines[2].to_sec".
func trimNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "gtfield":
		return "must be greater than from_sec"
	default:
		return "is invalid"
	}
}
