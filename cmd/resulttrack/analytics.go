package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func (a *app) analyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Class and student analytics",
	}

	trend := &cobra.Command{
		Use:   "trend STUDENT_ID",
		Short: "Percentage per assessment for a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tr, err := a.svc.StudentTrend(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !a.jsonOutput() {
				fmt.Fprintf(a.out, "%s\n\n", tr.StudentName)
			}
			return a.render(tr, []any{"ASSESSMENT", "TERM", "PERCENT"}, func(t *uitable.Table) {
				for _, p := range tr.Trend {
					t.AddRow(p.Assessment, p.Term, pct(p.Percentage))
				}
			})
		},
	}

	subjects := &cobra.Command{
		Use:   "subjects CLASS_ID",
		Short: "Average per subject for a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sum, err := a.svc.ClassSubjectsSummary(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(sum, []any{"SUBJECT", "AVERAGE"}, func(t *uitable.Table) {
				for _, s := range sum {
					t.AddRow(s.Subject, pct(s.Average))
				}
			})
		},
	}

	overview := &cobra.Command{
		Use:   "overview CLASS_ID",
		Short: "Class statistics and top students",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ov, err := a.svc.ClassOverview(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printJSON(ov)
			}
			o := ov.Overview
			fmt.Fprintf(a.out, "%s: average %s, min %s, max %s, pass rate %s\n\n",
				o.ClassName, pct(o.Average), pct(o.Minimum), pct(o.Maximum), pct(o.PassRate))
			return a.render(nil, []any{"RANK", "STUDENT", "AVERAGE"}, func(t *uitable.Table) {
				for i, s := range ov.TopStudents {
					t.AddRow(i+1, s.StudentName, pct(s.Average))
				}
			})
		},
	}

	var every time.Duration
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Totals of students, classes and subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			for {
				counts, err := a.svc.DashboardCounts(ctx)
				if err != nil {
					return err
				}
				if err := a.render(counts, []any{"STUDENTS", "CLASSES", "SUBJECTS"}, func(t *uitable.Table) {
					t.AddRow(counts.Students, counts.Classes, counts.Subjects)
				}); err != nil {
					return err
				}
				if every <= 0 {
					return nil
				}
				select {
				case <-ctx.Done():
					if errors.Is(ctx.Err(), context.Canceled) {
						return nil
					}
					return ctx.Err()
				case <-time.After(every):
				}
			}
		},
	}
	dashboard.Flags().DurationVar(&every, "watch", 0, "refresh interval; the config file is reloaded while watching")

	cmd.AddCommand(trend, subjects, overview, dashboard)
	return cmd
}
