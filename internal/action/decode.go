package action

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// requiredFields maps each parameterized kind to the fields the model must
// supply for it. Kinds absent from this table have no required parameters.
var requiredFields = map[Kind][]string{
	KindClick:     {"x", "y"},
	KindType:      {"text"},
	KindKeyPress:  {"key"},
	KindOpenApp:   {"app_name"},
	KindCloseApp:  {"app_name"},
	KindFileRead:  {"file_path"},
	KindFileWrite: {"file_path", "content"},
	KindMouseMove: {"x", "y"},
	KindScroll:    {"direction"},
	KindWait:      {"seconds"},
}

// shellKinds are process-execution kinds the contract never offers. They are
// recognized here so they fail safety validation by category instead of
// being mistaken for malformed output.
var shellKinds = map[Kind]bool{
	"shell":       true,
	"execute":     true,
	"run_command": true,
}

// ValidateFormat checks that a raw model reply has the shape of a known
// action: an "action" field naming a recognized kind and every required
// field for that kind. It runs before safety validation and is the first
// line of defense against malformed model output.
func ValidateFormat(raw map[string]any) (bool, string) {
	if raw == nil {
		return false, "action data must be a mapping"
	}

	kindVal, ok := raw["action"]
	if !ok {
		return false, "missing 'action' field"
	}
	kindStr, ok := kindVal.(string)
	if !ok || kindStr == "" {
		return false, "'action' field must be a non-empty string"
	}

	kind := Kind(kindStr)
	if kind == KindError || shellKinds[kind] {
		return true, "action format valid"
	}

	fields, known := requiredFields[kind]
	if !known {
		return false, fmt.Sprintf("unknown action kind '%s'", kindStr)
	}

	for _, field := range fields {
		if _, present := raw[field]; !present {
			return false, fmt.Sprintf("missing required field '%s' for action '%s'", field, kindStr)
		}
	}

	return true, "action format valid"
}

// Decode is the single place where the model's stringly-typed mapping
// becomes a typed Action. Format validation runs first; decoding is weakly
// typed so JSON numbers land in integer fields.
func Decode(raw map[string]any) (Action, error) {
	if ok, reason := ValidateFormat(raw); !ok {
		return nil, fmt.Errorf("invalid action format: %s", reason)
	}

	kind := Kind(raw["action"].(string))

	if shellKinds[kind] {
		var a ShellExec
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		a.RawKind = string(kind)
		return a, nil
	}

	switch kind {
	case KindClick:
		a := Click{Button: "left", Clicks: 1}
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindType:
		a := TypeText{Interval: 0.01}
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindKeyPress:
		var a KeyPress
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindOpenApp:
		var a OpenApp
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindCloseApp:
		var a CloseApp
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindFileRead:
		var a FileRead
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindFileWrite:
		a := FileWrite{Mode: "w"}
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindMouseMove:
		a := MouseMove{Duration: 0.25}
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindScroll:
		a := Scroll{Clicks: 3}
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindWait:
		var a Wait
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	case KindError:
		var a Fault
		if err := decodeInto(raw, &a); err != nil {
			return nil, err
		}
		if a.Message == "" {
			a.Message = "Unknown error"
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown action kind '%s'", kind)
	}
}

func decodeInto(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid action parameters: %w", err)
	}
	return nil
}
