package main

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formhost/pkg/screens"
)

func newListCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the forms the service exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.client()
			if err != nil {
				return err
			}
			forms, err := svc.ListForms(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				forms = screens.VisibleForms(forms)
			}
			if len(forms) == 0 {
				pterm.Info.Println("no forms found")
				return nil
			}

			rows := pterm.TableData{{"TITLE", "PATH", "TYPE", "COMPONENTS"}}
			for _, form := range forms {
				rows = append(rows, []string{
					form.Title,
					form.Path,
					form.Type,
					strconv.Itoa(len(form.Components)),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include administrative and resource forms")
	return cmd
}
