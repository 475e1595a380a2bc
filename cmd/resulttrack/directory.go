package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/BADARRASHEED/Student-Result-Tracking/api"
)

func listCmd[T any](a *app, use, short string, load func(context.Context) ([]T, error), print func([]T) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return print(list)
		},
	}
}

func (a *app) studentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Browse students",
	}
	cmd.AddCommand(
		listCmd(a, "list", "List students", func(ctx context.Context) ([]api.Student, error) {
			return a.svc.Students(ctx)
		}, a.printStudents),
		&cobra.Command{
			Use:   "show ID",
			Short: "Show one student",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				s, err := a.svc.Student(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printStudents([]api.Student{s})
			},
		},
		&cobra.Command{
			Use:   "profile ID",
			Short: "Show a student's marks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := a.svc.StudentProfile(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printProfile(p)
			},
		},
	)
	return cmd
}

func (a *app) printProfile(p api.StudentProfile) error {
	if a.jsonOutput() {
		return a.printJSON(p)
	}
	class := strconv.FormatInt(p.ClassID, 10)
	if p.ClassName != nil && *p.ClassName != "" {
		class = *p.ClassName
	}
	fmt.Fprintf(a.out, "%s (roll %s, class %s)\n\n", p.Name, p.RollNumber, class)
	return a.render(nil, []any{"ASSESSMENT", "SUBJECT", "TERM", "SCORE", "MAX", "PERCENT"}, func(t *uitable.Table) {
		for _, m := range p.Marks {
			t.AddRow(m.Assessment, m.Subject, m.Term, m.Score, m.Maximum, pct(m.Percentage))
		}
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
