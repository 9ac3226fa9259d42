// Package testsupport provides shared fixtures for tests and runnable
// examples: a representative form definition and matching submission data.
package testsupport

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// SurveyForm returns a small but representative form: scalar inputs, a select,
// and a nested panel.
func SurveyForm() formio.Form {
	return formio.Form{
		ID:      "68a1b2c3d4e5f60718293a4b",
		Title:   "Customer Survey",
		Name:    "customerSurvey",
		Path:    "customer-survey",
		Type:    "form",
		Display: "form",
		Components: []formio.Component{
			{Type: formio.TypeTextField, Key: "name", Label: "Full Name", Input: true,
				Validate: &formio.Validation{Required: true}},
			{Type: formio.TypeEmail, Key: "email", Label: "Email", Input: true},
			{Type: formio.TypeSelect, Key: "rating", Label: "Rating", Input: true,
				Data: &formio.SelectData{Values: []formio.SelectValue{
					{Label: "Great", Value: "great"},
					{Label: "Okay", Value: "okay"},
					{Label: "Poor", Value: "poor"},
				}}},
			{Type: formio.TypePanel, Key: "details", Label: "Details", Components: []formio.Component{
				{Type: formio.TypeTextArea, Key: "comments", Label: "Comments", Input: true},
			}},
			{Type: formio.TypeButton, Key: "submit", Label: "Submit", Input: true},
		},
	}
}

// SurveyData returns submission data matching SurveyForm.
func SurveyData() formio.Data {
	return formio.Data{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"rating":   "great",
		"comments": "Smooth experience.",
	}
}

// MustJSON marshals v or fails the test.
func MustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}
