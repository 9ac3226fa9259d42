package formio

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Form is a form definition as stored by the form service. The service assigns
// ID, Created and Modified; clients never mutate a fetched Form in place.
//
// Like Component, a Form decoded from JSON keeps every top-level field it saw
// (access rules, revision counters, vendor extensions), so re-encoding a
// fetched form reproduces the service's payload in value terms.
type Form struct {
	ID          string
	Title       string
	Name        string
	Path        string
	Type        string
	Display     string
	Components  []Component
	Settings    map[string]any
	Properties  map[string]any
	Tags        []string
	Owner       string
	MachineName string
	Created     string
	Modified    string

	raw map[string]json.RawMessage
}

// Unknown returns the raw JSON of a top-level field that was present in the
// decoded payload, modelled or not. It returns false for forms built in code.
func (f Form) Unknown(key string) (json.RawMessage, bool) {
	value, ok := f.raw[key]
	return value, ok
}

// UnmarshalJSON decodes the known fields and retains the full payload for
// lossless re-encoding.
func (f *Form) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("formio: decode form: %w", err)
	}
	*f = Form{raw: raw}

	decode := func(key string, dst any) error {
		value, ok := raw[key]
		if !ok || string(value) == "null" {
			return nil
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return fmt.Errorf("formio: form field %q: %w", key, err)
		}
		return nil
	}

	steps := []struct {
		key string
		dst any
	}{
		{"_id", &f.ID},
		{"title", &f.Title},
		{"name", &f.Name},
		{"path", &f.Path},
		{"type", &f.Type},
		{"display", &f.Display},
		{"components", &f.Components},
		{"settings", &f.Settings},
		{"properties", &f.Properties},
		{"tags", &f.Tags},
		{"owner", &f.Owner},
		{"machineName", &f.MachineName},
		{"created", &f.Created},
		{"modified", &f.Modified},
	}
	for _, step := range steps {
		if err := decode(step.key, step.dst); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON re-encodes the form. Decoded forms reproduce their original
// payload; forms built in code emit only their populated fields plus the
// always-present title, name, path and components.
func (f Form) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(f.raw)+8)
	for key, value := range f.raw {
		out[key] = value
	}

	var firstErr error
	set := func(key string, value any) {
		if firstErr != nil {
			return
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			firstErr = fmt.Errorf("formio: encode form field %q: %w", key, err)
			return
		}
		out[key] = encoded
	}
	setPresent := func(key string, value any, populated bool) {
		_, inRaw := f.raw[key]
		if populated || inRaw {
			set(key, value)
		}
	}

	set("title", f.Title)
	set("name", f.Name)
	set("path", f.Path)
	setPresent("_id", f.ID, f.ID != "")
	setPresent("type", f.Type, f.Type != "")
	setPresent("display", f.Display, f.Display != "")
	setPresent("settings", f.Settings, len(f.Settings) > 0)
	setPresent("properties", f.Properties, len(f.Properties) > 0)
	setPresent("tags", f.Tags, len(f.Tags) > 0)
	setPresent("owner", f.Owner, f.Owner != "")
	setPresent("machineName", f.MachineName, f.MachineName != "")
	setPresent("created", f.Created, f.Created != "")
	setPresent("modified", f.Modified, f.Modified != "")

	// The component tree always re-encodes from the typed slice so
	// programmatic edits survive; each component applies its own retention.
	set("components", f.Components)

	if firstErr != nil {
		return nil, firstErr
	}
	return json.Marshal(out)
}

// Walk visits every component in the tree depth-first, containers before their
// children. The visitor returns false to stop early.
func (f Form) Walk(visit func(c Component) bool) {
	walkComponents(f.Components, visit)
}

func walkComponents(components []Component, visit func(c Component) bool) bool {
	for _, component := range components {
		if !visit(component) {
			return false
		}
		if len(component.Components) > 0 {
			if !walkComponents(component.Components, visit) {
				return false
			}
		}
	}
	return true
}

// Component returns the component with the given key anywhere in the tree.
func (f Form) Component(key string) (Component, bool) {
	var found Component
	ok := false
	f.Walk(func(c Component) bool {
		if c.Key == key {
			found = c
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// State is the submission lifecycle state tracked by the service.
type State string

const (
	StateSubmitted State = "submitted"
	StateDraft     State = "draft"
)

// Data is the submission payload: component key to JSON-compatible value. Its
// shape is defined and validated by the owning form's component tree on the
// service side.
type Data map[string]any

// Submission is a stored instance of user-entered data tied to one form.
type Submission struct {
	ID       string         `json:"_id,omitempty"`
	Form     string         `json:"form,omitempty"`
	Owner    string         `json:"owner,omitempty"`
	Roles    []string       `json:"roles,omitempty"`
	State    State          `json:"state,omitempty"`
	Created  string         `json:"created,omitempty"`
	Modified string         `json:"modified,omitempty"`
	Data     Data           `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ShareText serialises the submission into a short human-readable text block,
// resolving component labels from the form when available. Keys without a
// matching component are listed under their raw key so no data is dropped.
func (s Submission) ShareText(form Form) string {
	var b strings.Builder
	if form.Title != "" {
		b.WriteString(form.Title)
		b.WriteString("\n")
	}

	seen := make(map[string]struct{}, len(s.Data))
	form.Walk(func(c Component) bool {
		if !c.Input || c.Key == "" {
			return true
		}
		value, ok := s.Data[c.Key]
		if !ok {
			return true
		}
		seen[c.Key] = struct{}{}
		label := c.Label
		if label == "" {
			label = c.Key
		}
		fmt.Fprintf(&b, "%s: %s\n", label, formatValue(value))
		return true
	})

	rest := make([]string, 0, len(s.Data))
	for key := range s.Data {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(&b, "%s: %s\n", key, formatValue(s.Data[key]))
	}

	if s.ID != "" {
		fmt.Fprintf(&b, "Submission: %s\n", s.ID)
	}
	return b.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+"="+formatValue(v[key]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// ErrorDetail is one entry of the structured error body the service attaches
// to validation failures.
type ErrorDetail struct {
	Message string         `json:"message"`
	Path    []string       `json:"path,omitempty"`
	Level   string         `json:"level,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}
