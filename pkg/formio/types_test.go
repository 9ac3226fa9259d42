package formio_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formhost/pkg/formio"
)

func TestFormRetainsUnmodelledFields(t *testing.T) {
	raw := `{
		"_id": "f1",
		"title": "Survey",
		"name": "survey",
		"path": "survey",
		"type": "form",
		"_vid": 3,
		"access": [{"type": "read_all", "roles": ["anonymous"]}],
		"submissionAccess": [{"type": "create_own", "roles": ["authenticated"]}],
		"components": [{"type": "textfield", "key": "a", "input": true}]
	}`

	var form formio.Form
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("decode form: %v", err)
	}

	if _, ok := form.Unknown("access"); !ok {
		t.Fatal("access not retained")
	}

	encoded, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}

	var want, got map[string]any
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormEditsSurviveReEncoding(t *testing.T) {
	raw := `{"title":"Old","name":"survey","path":"survey","_vid":2,"components":[]}`

	var form formio.Form
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	form.Title = "New"
	form.Components = []formio.Component{{Type: formio.TypeTextField, Key: "a", Input: true}}

	encoded, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatal(err)
	}
	if got["title"] != "New" {
		t.Errorf("title = %v, want the edited value", got["title"])
	}
	if got["_vid"] != float64(2) {
		t.Errorf("_vid = %v, want retained", got["_vid"])
	}
	components, ok := got["components"].([]any)
	if !ok || len(components) != 1 {
		t.Fatalf("components = %v, want the edited tree", got["components"])
	}
}

func TestShareTextResolvesLabels(t *testing.T) {
	form := formio.Form{
		Title: "Health Survey",
		Components: []formio.Component{
			{Type: formio.TypeTextField, Key: "name", Label: "Full Name", Input: true},
			{Type: formio.TypeRadio, Key: "smoker", Label: "Do you smoke?", Input: true},
		},
	}
	submission := formio.Submission{
		ID:    "sub-1",
		State: formio.StateSubmitted,
		Data: formio.Data{
			"name":   "Ada",
			"smoker": "no",
			"extra":  float64(3),
		},
	}

	text := submission.ShareText(form)

	for _, want := range []string{
		"Health Survey",
		"Full Name: Ada",
		"Do you smoke?: no",
		"extra: 3",
		"Submission: sub-1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("share text missing %q:\n%s", want, text)
		}
	}
}

func TestShareTextOrdersComponentsBeforeLeftovers(t *testing.T) {
	form := formio.Form{
		Components: []formio.Component{
			{Type: formio.TypeTextField, Key: "b", Label: "B", Input: true},
		},
	}
	submission := formio.Submission{Data: formio.Data{"a": "second", "b": "first"}}

	text := submission.ShareText(form)
	if !strings.Contains(text, "B: first") || !strings.Contains(text, "a: second") {
		t.Fatalf("share text incomplete:\n%s", text)
	}
	if strings.Index(text, "B: first") > strings.Index(text, "a: second") {
		t.Fatalf("component values should precede unmatched keys:\n%s", text)
	}
}
