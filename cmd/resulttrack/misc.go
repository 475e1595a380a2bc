package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/BADARRASHEED/Student-Result-Tracking/api"
	"github.com/BADARRASHEED/Student-Result-Tracking/version"
)

func (a *app) reportURLCmd() *cobra.Command {
	var term string
	cmd := &cobra.Command{
		Use:   "report-url STUDENT_ID",
		Short: "Print the report card address for a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, a.svc.ReportURL(id, term))
			return err
		},
	}
	cmd.Flags().StringVar(&term, "term", api.DefaultTerm, "report term")
	return cmd
}

func (a *app) originsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "origins",
		Short: "Show the API origins in the order they are tried",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidates := a.client.Candidates()
			return a.render(candidates, []any{"#", "ORIGIN"}, func(t *uitable.Table) {
				for i, o := range candidates {
					t.AddRow(i+1, o)
				}
			})
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if a.jsonOutput() {
				s, err := info.JSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.out, s)
				return err
			}
			_, err := fmt.Fprintln(a.out, info.Text())
			return err
		},
	}
}
