package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the form service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.client()
			if err != nil {
				return err
			}
			health, err := svc.HealthCheck(cmd.Context())
			if err != nil {
				pterm.Error.Printfln("service at %s is unreachable", svc.BaseURL())
				return err
			}
			status := health.Status
			if status == "" {
				status = "ok"
			}
			pterm.Success.Printfln("service at %s is healthy (status=%s)", svc.BaseURL(), status)
			return nil
		},
	}
}
