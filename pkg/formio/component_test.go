package formio_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formhost/pkg/formio"
)

const surveyFormJSON = `{
	"_id": "64f0a1",
	"title": "Health Survey",
	"name": "healthSurvey",
	"path": "health-survey",
	"type": "form",
	"display": "form",
	"components": [
		{
			"type": "textfield",
			"key": "name",
			"label": "Full Name",
			"input": true,
			"placeholder": "Enter your full name",
			"validate": {"required": true, "minLength": 2, "customPrivate": false}
		},
		{
			"type": "panel",
			"key": "details",
			"label": "Details",
			"input": false,
			"components": [
				{
					"type": "radio",
					"key": "smoker",
					"label": "Do you smoke?",
					"input": true,
					"values": [
						{"label": "Yes", "value": "yes"},
						{"label": "No", "value": "no"}
					]
				}
			]
		},
		{
			"type": "signature2000",
			"key": "sig",
			"input": true,
			"footprint": {"width": 480, "pen": "fine"}
		}
	],
	"tags": ["health"],
	"created": "2024-01-10T08:30:00.000Z",
	"modified": "2024-02-01T12:00:00.000Z"
}`

func decodeForm(t *testing.T, raw string) formio.Form {
	t.Helper()
	var form formio.Form
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	return form
}

func asGeneric(t *testing.T, value any) map[string]any {
	t.Helper()
	encoded, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		t.Fatalf("normalise: %v", err)
	}
	return out
}

func TestComponentRoundTripPreservesUnknownFields(t *testing.T) {
	form := decodeForm(t, surveyFormJSON)

	var original map[string]any
	if err := json.Unmarshal([]byte(surveyFormJSON), &original); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	if diff := cmp.Diff(original, asGeneric(t, form)); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestComponentDecodesKnownFields(t *testing.T) {
	form := decodeForm(t, surveyFormJSON)

	name, ok := form.Component("name")
	if !ok {
		t.Fatalf("component %q not found", "name")
	}
	if name.Type != formio.TypeTextField || !name.Input {
		t.Fatalf("unexpected component: %+v", name)
	}
	if name.Validate == nil || !name.Validate.Required || name.Validate.MinLength != 2 {
		t.Fatalf("validate not decoded: %+v", name.Validate)
	}

	smoker, ok := form.Component("smoker")
	if !ok {
		t.Fatalf("nested component not found")
	}
	want := []formio.SelectValue{
		{Label: "Yes", Value: "yes"},
		{Label: "No", Value: "no"},
	}
	if diff := cmp.Diff(want, smoker.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestComponentUnknownTypePassesThrough(t *testing.T) {
	form := decodeForm(t, surveyFormJSON)

	sig, ok := form.Component("sig")
	if !ok {
		t.Fatalf("opaque component not found")
	}
	if sig.Known() {
		t.Fatalf("type %q should not be known", sig.Type)
	}
	footprint, ok := sig.Unknown("footprint")
	if !ok {
		t.Fatalf("unknown payload dropped")
	}
	var decoded map[string]any
	if err := json.Unmarshal(footprint, &decoded); err != nil {
		t.Fatalf("decode unknown payload: %v", err)
	}
	if decoded["pen"] != "fine" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestRegisterTypeExtendsKnownSet(t *testing.T) {
	if formio.KnownType("holographic") {
		t.Fatalf("type already registered")
	}
	formio.RegisterType("holographic")
	if !formio.KnownType("holographic") {
		t.Fatalf("registered type not reported as known")
	}
}

func TestWalkVisitsDepthFirst(t *testing.T) {
	form := decodeForm(t, surveyFormJSON)

	var keys []string
	form.Walk(func(c formio.Component) bool {
		keys = append(keys, c.Key)
		return true
	})

	want := []string{"name", "details", "smoker", "sig"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	form := decodeForm(t, surveyFormJSON)

	count := 0
	form.Walk(func(formio.Component) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("expected a single visit, got %d", count)
	}
}

func TestProgrammaticComponentMarshal(t *testing.T) {
	component := formio.Component{
		Type:  formio.TypeEmail,
		Key:   "email",
		Label: "Email",
		Input: true,
		Validate: &formio.Validation{
			Required: true,
		},
	}

	got := asGeneric(t, component)
	want := map[string]any{
		"type":     "email",
		"key":      "email",
		"label":    "Email",
		"input":    true,
		"validate": map[string]any{"required": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("marshal mismatch (-want +got):\n%s", diff)
	}
}
