package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/BADARRASHEED/Student-Result-Tracking/api"
)

func (a *app) marksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marks",
		Short: "List and record marks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded marks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			marks, err := a.svc.Marks(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(marks, []any{"ID", "STUDENT", "ASSESSMENT", "MARKS"}, func(t *uitable.Table) {
				for _, m := range marks {
					t.AddRow(m.ID, m.StudentID, m.AssessmentID, m.MarksObtained)
				}
			})
		},
	}

	var in api.MarkInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a mark for a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			students, assessments, err := a.svc.MarkEntryData(ctx)
			if err != nil {
				return err
			}
			student, ok := findStudent(students, in.StudentID)
			if !ok {
				return fmt.Errorf("%w: unknown student %d", api.ErrInvalidInput, in.StudentID)
			}
			assessment, ok := findAssessment(assessments, in.AssessmentID)
			if !ok {
				if len(assessments) == 0 {
					return errors.New("no assessments available, seed the backend first")
				}
				return fmt.Errorf("%w: unknown assessment %d", api.ErrInvalidInput, in.AssessmentID)
			}
			if err := api.CheckMarkAgainst(in, assessment); err != nil {
				return err
			}

			m, err := a.svc.CreateMark(ctx, in)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printJSON(m)
			}
			fmt.Fprintf(a.out, "Mark saved for %s (%s): %g/%d\n", assessment.Name, student.Name, m.MarksObtained, assessment.MaximumMarks)
			return nil
		},
	}
	add.Flags().Int64Var(&in.StudentID, "student", 0, "student id")
	add.Flags().Int64Var(&in.AssessmentID, "assessment", 0, "assessment id")
	add.Flags().Float64Var(&in.MarksObtained, "marks", 0, "marks obtained")
	_ = add.MarkFlagRequired("student")
	_ = add.MarkFlagRequired("assessment")
	_ = add.MarkFlagRequired("marks")

	cmd.AddCommand(list, add)
	return cmd
}

func findStudent(list []api.Student, id int64) (api.Student, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return api.Student{}, false
}

func findAssessment(list []api.Assessment, id int64) (api.Assessment, bool) {
	for _, as := range list {
		if as.ID == id {
			return as, true
		}
	}
	return api.Assessment{}, false
}
