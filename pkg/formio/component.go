package formio

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Known component type discriminants. The set is extensible via RegisterType;
// unknown discriminants still round-trip as opaque payloads.
const (
	TypeTextField   = "textfield"
	TypeTextArea    = "textarea"
	TypeEmail       = "email"
	TypePhoneNumber = "phoneNumber"
	TypeNumber      = "number"
	TypeCheckbox    = "checkbox"
	TypeSelectBoxes = "selectboxes"
	TypeSelect      = "select"
	TypeRadio       = "radio"
	TypeSurvey      = "survey"
	TypeDateTime    = "datetime"
	TypeDay         = "day"
	TypeButton      = "button"
	TypePanel       = "panel"
	TypeFieldSet    = "fieldset"
	TypeColumns     = "columns"
	TypeContainer   = "container"
	TypeContent     = "content"
	TypeHidden      = "hidden"
)

var (
	typeRegistryMu sync.RWMutex
	typeRegistry   = map[string]struct{}{
		TypeTextField:   {},
		TypeTextArea:    {},
		TypeEmail:       {},
		TypePhoneNumber: {},
		TypeNumber:      {},
		TypeCheckbox:    {},
		TypeSelectBoxes: {},
		TypeSelect:      {},
		TypeRadio:       {},
		TypeSurvey:      {},
		TypeDateTime:    {},
		TypeDay:         {},
		TypeButton:      {},
		TypePanel:       {},
		TypeFieldSet:    {},
		TypeColumns:     {},
		TypeContainer:   {},
		TypeContent:     {},
		TypeHidden:      {},
	}
)

// RegisterType adds a component type to the known set. Registering an already
// known type is a no-op.
func RegisterType(name string) {
	if name == "" {
		return
	}
	typeRegistryMu.Lock()
	defer typeRegistryMu.Unlock()
	typeRegistry[name] = struct{}{}
}

// KnownType reports whether the discriminant belongs to the known set.
func KnownType(name string) bool {
	typeRegistryMu.RLock()
	defer typeRegistryMu.RUnlock()
	_, ok := typeRegistry[name]
	return ok
}

// KnownTypes returns the sorted list of registered component types.
func KnownTypes() []string {
	typeRegistryMu.RLock()
	defer typeRegistryMu.RUnlock()
	names := make([]string, 0, len(typeRegistry))
	for name := range typeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validation holds the service-side validation metadata attached to a
// component. Validation itself runs on the service; this is display metadata
// as far as the client is concerned.
type Validation struct {
	Required  bool     `json:"required,omitempty"`
	MinLength int      `json:"minLength,omitempty"`
	MaxLength int      `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Custom    string   `json:"custom,omitempty"`
}

// Conditional controls simple show/hide visibility of a component.
type Conditional struct {
	Show *bool  `json:"show,omitempty"`
	When string `json:"when,omitempty"`
	Eq   any    `json:"eq,omitempty"`
}

// SelectValue is one selectable option for radio, select, selectboxes and
// survey components.
type SelectValue struct {
	Label    string `json:"label"`
	Value    any    `json:"value"`
	Shortcut string `json:"shortcut,omitempty"`
}

// SelectData describes where a select component sources its options from.
type SelectData struct {
	Values   []SelectValue `json:"values,omitempty"`
	URL      string        `json:"url,omitempty"`
	Resource string        `json:"resource,omitempty"`
	JSON     any           `json:"json,omitempty"`
}

// Component is one node of a form's component tree: a polymorphic value
// discriminated by Type, with a stable Key used as the field name in
// submission data. Containers nest children under Components; the tree has no
// cycles.
//
// A Component decoded from JSON keeps every field it saw, including ones this
// struct does not model, so MarshalJSON reproduces the service's payload
// byte-for-byte in value terms. Typed fields are decoded views; the scalar
// ones (Type, Key, Label, ...) write back on marshal, while partially modelled
// objects (Validate, Values, Data, ...) prefer the original payload to avoid
// dropping vendor extensions.
type Component struct {
	Type         string
	Key          string
	Label        string
	Input        bool
	Placeholder  string
	Description  string
	Tooltip      string
	Hidden       bool
	Multiple     bool
	TableView    bool
	DefaultValue any
	Validate     *Validation
	Conditional  *Conditional
	Values       []SelectValue
	Questions    []SelectValue
	Data         *SelectData
	Components   []Component

	raw map[string]json.RawMessage
}

// Known reports whether the component's type is in the registered set.
func (c Component) Known() bool {
	return KnownType(c.Type)
}

// Unknown returns the raw JSON of a field that was present in the decoded
// payload, modelled or not. It returns false for components built in code.
func (c Component) Unknown(key string) (json.RawMessage, bool) {
	value, ok := c.raw[key]
	return value, ok
}

// UnmarshalJSON decodes the known fields and retains the full payload for
// lossless re-encoding.
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("formio: decode component: %w", err)
	}
	*c = Component{raw: raw}

	decode := func(key string, dst any) error {
		value, ok := raw[key]
		if !ok || string(value) == "null" {
			return nil
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return fmt.Errorf("formio: component field %q: %w", key, err)
		}
		return nil
	}

	steps := []struct {
		key string
		dst any
	}{
		{"type", &c.Type},
		{"key", &c.Key},
		{"label", &c.Label},
		{"input", &c.Input},
		{"placeholder", &c.Placeholder},
		{"description", &c.Description},
		{"tooltip", &c.Tooltip},
		{"hidden", &c.Hidden},
		{"multiple", &c.Multiple},
		{"tableView", &c.TableView},
		{"defaultValue", &c.DefaultValue},
		{"validate", &c.Validate},
		{"conditional", &c.Conditional},
		{"values", &c.Values},
		{"questions", &c.Questions},
		{"data", &c.Data},
		{"components", &c.Components},
	}
	for _, step := range steps {
		if err := decode(step.key, step.dst); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON re-encodes the component. Decoded components reproduce their
// original payload; components built in code emit only their populated fields.
func (c Component) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.raw)+8)
	for key, value := range c.raw {
		out[key] = value
	}

	var firstErr error
	set := func(key string, value any) {
		if firstErr != nil {
			return
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			firstErr = fmt.Errorf("formio: encode component field %q: %w", key, err)
			return
		}
		out[key] = encoded
	}
	setPresent := func(key string, value any, populated bool) {
		_, inRaw := c.raw[key]
		if populated || inRaw {
			set(key, value)
		}
	}
	// Partially modelled objects keep the decoded payload; only components
	// built in code write them from the typed fields.
	setIfAbsent := func(key string, value any, populated bool) {
		if _, inRaw := c.raw[key]; inRaw {
			return
		}
		if populated {
			set(key, value)
		}
	}

	setPresent("type", c.Type, c.Type != "")
	setPresent("key", c.Key, c.Key != "")
	setPresent("label", c.Label, c.Label != "")
	setPresent("input", c.Input, c.Input || c.raw == nil)
	setPresent("placeholder", c.Placeholder, c.Placeholder != "")
	setPresent("description", c.Description, c.Description != "")
	setPresent("tooltip", c.Tooltip, c.Tooltip != "")
	setPresent("hidden", c.Hidden, c.Hidden)
	setPresent("multiple", c.Multiple, c.Multiple)
	setPresent("tableView", c.TableView, c.TableView)
	setPresent("defaultValue", c.DefaultValue, c.DefaultValue != nil)

	setIfAbsent("validate", c.Validate, c.Validate != nil)
	setIfAbsent("conditional", c.Conditional, c.Conditional != nil)
	setIfAbsent("values", c.Values, len(c.Values) > 0)
	setIfAbsent("questions", c.Questions, len(c.Questions) > 0)
	setIfAbsent("data", c.Data, c.Data != nil)

	// Children always re-encode from the typed slice so programmatic tree
	// edits survive; each child applies the same retention rules.
	setPresent("components", c.Components, len(c.Components) > 0)

	if firstErr != nil {
		return nil, firstErr
	}
	return json.Marshal(out)
}
