package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formhost/internal/importer"
	"github.com/goliatone/go-formhost/pkg/openapi"
)

func newImportCmd(a *app) *cobra.Command {
	var update bool

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import form definitions from a directory",
		Long: "import walks a directory for JSON and YAML form definitions, logs in as " +
			"admin, skips forms the service already has and creates the rest. " +
			"Exit code 2 means the run never started; exit code 1 means some forms failed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.client()
			if err != nil {
				return err
			}
			email, password, err := adminCredentials(a)
			if err != nil {
				return err
			}

			report, err := importer.Run(cmd.Context(), svc, importer.Options{
				Dir:      args[0],
				Email:    email,
				Password: password,
				Update:   update,
				Log:      a.log,
			})
			if err != nil {
				return err
			}

			pterm.DefaultSection.Println("Import summary")
			pterm.Success.Printfln("created: %d", report.Created)
			if update {
				pterm.Success.Printfln("updated: %d", report.Updated)
			}
			pterm.Info.Printfln("skipped: %d", report.Skipped)
			if report.Failed > 0 {
				pterm.Error.Printfln("failed:  %d", report.Failed)
				for _, result := range report.Results {
					if result.Err != nil {
						pterm.Error.Printfln("  %s: %v", result.File, result.Err)
					}
				}
				return fmt.Errorf("%d of %d forms failed", report.Failed, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&update, "update", false, "replace forms that already exist")
	cmd.AddCommand(newImportOpenAPICmd(a))
	return cmd
}

func newImportOpenAPICmd(a *app) *cobra.Command {
	var (
		operation string
		out       string
		push      bool
	)

	cmd := &cobra.Command{
		Use:   "openapi <document>",
		Short: "Derive a form from an OpenAPI operation",
		Long: "import openapi converts the JSON request body of an OpenAPI operation " +
			"into a form definition. Without --operation it lists the buildable operations.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openapi.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if operation == "" {
				ops := doc.Operations()
				if len(ops) == 0 {
					pterm.Info.Println("no operations with a JSON request body found")
					return nil
				}
				rows := pterm.TableData{{"OPERATION", "METHOD", "PATH", "SUMMARY"}}
				for _, op := range ops {
					rows = append(rows, []string{op.ID, op.Method, op.Path, op.Summary})
				}
				return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
			}

			form, err := doc.BuildForm(operation)
			if err != nil {
				return err
			}

			if push {
				svc, err := a.client()
				if err != nil {
					return err
				}
				email, password, err := adminCredentials(a)
				if err != nil {
					return err
				}
				if _, err := svc.AdminLogin(cmd.Context(), email, password); err != nil {
					return err
				}
				created, err := svc.CreateForm(cmd.Context(), *form)
				if err != nil {
					return err
				}
				pterm.Success.Printfln("created form %s at %s", created.Name, svc.FormURL(created.ID))
				return nil
			}

			encoded, err := json.MarshalIndent(form, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}
			if err := os.WriteFile(out, append(encoded, '\n'), 0o644); err != nil {
				return err
			}
			pterm.Success.Printfln("wrote %s", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&operation, "operation", "", "operationId to convert")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the form definition to a file")
	cmd.Flags().BoolVar(&push, "push", false, "create the form on the service instead of printing it")
	return cmd
}

// adminCredentials resolves admin credentials from config, prompting for
// whatever is missing.
func adminCredentials(a *app) (string, string, error) {
	email := a.cfg.AdminEmail
	password := a.cfg.AdminPassword
	if email == "" {
		if err := survey.AskOne(&survey.Input{Message: "Admin email:"}, &email); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if err := survey.AskOne(&survey.Password{Message: "Admin password:"}, &password); err != nil {
			return "", "", err
		}
	}
	if email == "" || password == "" {
		return "", "", errors.New("admin credentials are required")
	}
	return email, password, nil
}
