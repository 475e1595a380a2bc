package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gosuri/uitable"

	"github.com/BADARRASHEED/Student-Result-Tracking/api"
)

func (a *app) jsonOutput() bool { return a.output == "json" }

func (a *app) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

// render prints v as JSON when requested, otherwise the table built by rows.
func (a *app) render(v any, header []any, rows func(t *uitable.Table)) error {
	if a.jsonOutput() {
		return a.printJSON(v)
	}
	t := uitable.New()
	t.MaxColWidth = 60
	if len(header) > 0 {
		t.AddRow(header...)
	}
	rows(t)
	_, err := fmt.Fprintln(a.out, t)
	return err
}

func (a *app) printStudents(list []api.Student) error {
	return a.render(list, []any{"ID", "NAME", "ROLL", "CLASS"}, func(t *uitable.Table) {
		for _, s := range list {
			t.AddRow(s.ID, s.Name, s.RollNumber, s.ClassID)
		}
	})
}

func (a *app) printClasses(list []api.Class) error {
	return a.render(list, []any{"ID", "NAME", "TEACHER"}, func(t *uitable.Table) {
		for _, c := range list {
			t.AddRow(c.ID, c.Name, optInt(c.TeacherID))
		}
	})
}

func (a *app) printSubjects(list []api.Subject) error {
	return a.render(list, []any{"ID", "CODE", "NAME", "CLASS"}, func(t *uitable.Table) {
		for _, s := range list {
			t.AddRow(s.ID, s.Code, s.Name, optInt(s.ClassID))
		}
	})
}

func (a *app) printAssessments(list []api.Assessment) error {
	return a.render(list, []any{"ID", "NAME", "TYPE", "TERM", "MAX", "SUBJECT", "DATE"}, func(t *uitable.Table) {
		for _, as := range list {
			date := "-"
			if as.Date != nil && !as.Date.IsZero() {
				date = as.Date.Format("2006-01-02")
			}
			t.AddRow(as.ID, as.Name, as.Type, as.Term, as.MaximumMarks, as.SubjectID, date)
		}
	})
}

func optInt(p *int64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatInt(*p, 10)
}

func pct(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64) + "%"
}
