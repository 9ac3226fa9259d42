package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formhost/pkg/bridge"
	"github.com/goliatone/go-formhost/pkg/client"
	"github.com/goliatone/go-formhost/pkg/formio"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out      string
		dataFile string
		readOnly bool
		noSubmit bool
	)

	cmd := &cobra.Command{
		Use:   "render <form-path-or-id>",
		Short: "Render a form into a self-contained HTML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.client()
			if err != nil {
				return err
			}

			form, err := fetchForm(cmd, svc, args[0])
			if err != nil {
				return err
			}

			var initial formio.Data
			if dataFile != "" {
				raw, err := os.ReadFile(dataFile)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(raw, &initial); err != nil {
					return fmt.Errorf("parse %s: %w", dataFile, err)
				}
			}

			builder, err := bridge.NewDocument(
				bridge.WithReadOnly(readOnly),
				bridge.WithSubmitButton(!noSubmit),
				bridge.WithTheme(bridge.DefaultTheme()),
			)
			if err != nil {
				return err
			}
			doc, err := builder.Render(form, initial)
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), doc)
				return nil
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return err
			}
			pterm.Success.Printfln("wrote %s (%d bytes)", out, len(doc))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON file with initial submission data")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "render the form read-only")
	cmd.Flags().BoolVar(&noSubmit, "no-submit", false, "hide the submit button")
	return cmd
}

// fetchForm resolves the argument as a path first and falls back to an ID, so
// both "my-survey" and a hex identifier work.
func fetchForm(cmd *cobra.Command, svc *client.Client, ref string) (formio.Form, error) {
	form, err := svc.GetFormByPath(cmd.Context(), ref)
	if err == nil {
		return form, nil
	}
	byID, idErr := svc.GetForm(cmd.Context(), ref)
	if idErr != nil {
		return formio.Form{}, err
	}
	return byID, nil
}
