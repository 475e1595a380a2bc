package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/BADARRASHEED/Student-Result-Tracking/httpx"
	"github.com/BADARRASHEED/Student-Result-Tracking/session"
)

// backend is a canned backend: each route answers with a fixed status and body.
type backend struct {
	routes map[string]route
	hits   int32

	mu       sync.Mutex
	lastAuth string
	lastBody string
	lastCT   string
}

type route struct {
	status int
	body   string
	ct     string
}

func newBackend(t *testing.T, routes map[string]route) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.hits, 1)
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.lastAuth = r.Header.Get("Authorization")
		b.lastBody = string(body)
		b.lastCT = r.Header.Get("Content-Type")
		b.mu.Unlock()

		rt, ok := b.routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
			return
		}
		ct := rt.ct
		if ct == "" {
			ct = "application/json"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(rt.status)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func newTestService(t *testing.T, srv *httptest.Server, st session.Store) *Service {
	t.Helper()
	c, err := httpx.New(
		httpx.WithOrigins(httpx.OriginPolicy{Override: srv.URL}),
		httpx.WithSession(st),
	)
	if err != nil {
		t.Fatalf("httpx.New: %v", err)
	}
	return NewService(c, st)
}

func TestStudents(t *testing.T) {
	b, srv := newBackend(t, map[string]route{
		"GET /students/": {status: 200, body: `[{"id":1,"name":"Amy","roll_number":"R1","class_id":2},{"id":2,"name":"Ben","roll_number":"R2","class_id":2,"extra_info":"prefect"}]`},
	})
	st := session.NewMemoryStore()
	_ = session.SaveAuth(st, "tok", "ADMIN", "Ann")
	svc := newTestService(t, srv, st)

	list, err := svc.Students(context.Background())
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if len(list) != 2 || list[1].ExtraInfo == nil || *list[1].ExtraInfo != "prefect" {
		t.Fatalf("students = %+v", list)
	}
	if b.lastAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", b.lastAuth)
	}
}

func TestStudentProfile(t *testing.T) {
	_, srv := newBackend(t, map[string]route{
		"GET /students/5/profile": {status: 200, body: `{"id":5,"name":"Eve","roll_number":"R5","class_id":1,"class_name":"Grade 7",
			"marks":[{"assessment":"CAT 1","subject":"Math","term":"Term 1","maximum":50,"score":40,"percentage":80}]}`},
	})
	svc := newTestService(t, srv, nil)

	p, err := svc.StudentProfile(context.Background(), 5)
	if err != nil {
		t.Fatalf("StudentProfile: %v", err)
	}
	if p.ClassName == nil || *p.ClassName != "Grade 7" || len(p.Marks) != 1 || p.Marks[0].Percentage != 80 {
		t.Fatalf("profile = %+v", p)
	}
}

func TestAssessmentsDecodeDate(t *testing.T) {
	_, srv := newBackend(t, map[string]route{
		"GET /assessments/": {status: 200, body: `[{"id":1,"name":"CAT 1","type":"CAT","maximum_marks":50,"term":"Term 1","subject_id":3,"date":"2024-02-15"},{"id":2,"name":"Exam","type":"EXAM","maximum_marks":100,"term":"Term 1","subject_id":3,"date":null}]`},
	})
	svc := newTestService(t, srv, nil)

	list, err := svc.Assessments(context.Background())
	if err != nil {
		t.Fatalf("Assessments: %v", err)
	}
	if list[0].Date == nil || list[0].Date.Format("2006-01-02") != "2024-02-15" {
		t.Fatalf("date = %v", list[0].Date)
	}
	if list[1].Date != nil {
		t.Fatalf("null date decoded to %v", list[1].Date)
	}
	out, _ := json.Marshal(list[0])
	if !strings.Contains(string(out), `"date":"2024-02-15"`) {
		t.Fatalf("marshal = %s", out)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	_, srv := newBackend(t, map[string]route{
		"GET /marks/": {status: 401, body: `{"detail":"Could not validate credentials"}`},
	})
	st := session.NewMemoryStore()
	_ = session.SaveAuth(st, "stale", "TEACHER", "Tom")
	svc := newTestService(t, srv, st)

	_, err := svc.Marks(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !httpx.IsHTTPStatus(err, http.StatusUnauthorized) {
		t.Fatalf("status not preserved: %v", err)
	}
	if _, ok := session.Token(st); ok {
		t.Fatalf("session not cleared")
	}
}

func TestForbiddenKeepsSession(t *testing.T) {
	_, srv := newBackend(t, map[string]route{
		"GET /students/": {status: 403, body: `{"detail":"Admins only"}`},
	})
	st := session.NewMemoryStore()
	_ = session.SaveAuth(st, "tok", "TEACHER", "Tom")
	svc := newTestService(t, srv, st)

	_, err := svc.Students(context.Background())
	if err == nil || err.Error() != "Admins only" {
		t.Fatalf("err = %v", err)
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("403 treated as expired session")
	}
	if _, ok := session.Token(st); !ok {
		t.Fatalf("session cleared on 403")
	}
}

func TestCreateMark(t *testing.T) {
	b, srv := newBackend(t, map[string]route{
		"POST /marks/": {status: 200, body: `{"id":9,"student_id":1,"assessment_id":2,"marks_obtained":45.5}`},
	})
	svc := newTestService(t, srv, nil)

	m, err := svc.CreateMark(context.Background(), MarkInput{StudentID: 1, AssessmentID: 2, MarksObtained: 45.5})
	if err != nil {
		t.Fatalf("CreateMark: %v", err)
	}
	if m.ID != 9 {
		t.Fatalf("mark = %+v", m)
	}
	if b.lastCT != "application/json" {
		t.Fatalf("Content-Type = %q", b.lastCT)
	}
	var sent MarkInput
	if err := json.Unmarshal([]byte(b.lastBody), &sent); err != nil || sent.MarksObtained != 45.5 {
		t.Fatalf("body = %q (%v)", b.lastBody, err)
	}
}

func TestCreateMark_InvalidInputNotSent(t *testing.T) {
	b, srv := newBackend(t, nil)
	svc := newTestService(t, srv, nil)

	for _, in := range []MarkInput{
		{StudentID: 0, AssessmentID: 1, MarksObtained: 1},
		{StudentID: 1, AssessmentID: 0, MarksObtained: 1},
		{StudentID: 1, AssessmentID: 1, MarksObtained: -1},
	} {
		if _, err := svc.CreateMark(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("CreateMark(%+v) err = %v", in, err)
		}
	}
	if n := atomic.LoadInt32(&b.hits); n != 0 {
		t.Fatalf("%d requests sent", n)
	}
}

func TestCheckMarkAgainst(t *testing.T) {
	a := Assessment{ID: 1, MaximumMarks: 50}
	if err := CheckMarkAgainst(MarkInput{MarksObtained: 50}, a); err != nil {
		t.Fatalf("mark at maximum rejected: %v", err)
	}
	err := CheckMarkAgainst(MarkInput{MarksObtained: 50.5}, a)
	if !errors.Is(err, ErrInvalidInput) || !strings.Contains(err.Error(), "50") {
		t.Fatalf("err = %v", err)
	}
}

func TestDashboardCounts(t *testing.T) {
	_, srv := newBackend(t, map[string]route{
		"GET /students/": {status: 200, body: `[{"id":1},{"id":2},{"id":3}]`},
		"GET /classes/":  {status: 200, body: `[{"id":1}]`},
		"GET /subjects/": {status: 200, body: `[{"id":1},{"id":2}]`},
	})
	svc := newTestService(t, srv, nil)

	got, err := svc.DashboardCounts(context.Background())
	if err != nil {
		t.Fatalf("DashboardCounts: %v", err)
	}
	if got != (DashboardCounts{Students: 3, Classes: 1, Subjects: 2}) {
		t.Fatalf("counts = %+v", got)
	}
}

func TestDashboardCounts_PropagatesFailure(t *testing.T) {
	_, srv := newBackend(t, map[string]route{
		"GET /students/": {status: 200, body: `[]`},
		"GET /classes/":  {status: 500, body: `<h1>Internal Server Error</h1>`, ct: "text/html"},
		"GET /subjects/": {status: 200, body: `[]`},
	})
	svc := newTestService(t, srv, nil)

	_, err := svc.DashboardCounts(context.Background())
	if err == nil || err.Error() != "Internal Server Error" {
		t.Fatalf("err = %v", err)
	}
}

func TestAnalytics(t *testing.T) {
	_, srv := newBackend(t, map[string]route{
		"GET /analytics/student/4/trend":          {status: 200, body: `{"student_id":4,"student_name":"Dan","trend":[{"assessment":"CAT 1","percentage":72.5,"term":"Term 1"}]}`},
		"GET /analytics/class/2/subjects-summary": {status: 200, body: `[{"subject":"Math","average":61.25}]`},
		"GET /analytics/class/2/overview":         {status: 200, body: `{"overview":{"class_name":"Grade 7","average":60,"minimum":20,"maximum":95,"pass_rate":75},"top_students":[{"student_name":"Amy","average":95}]}`},
	})
	svc := newTestService(t, srv, nil)
	ctx := context.Background()

	tr, err := svc.StudentTrend(ctx, 4)
	if err != nil || tr.StudentName != "Dan" || len(tr.Trend) != 1 || tr.Trend[0].Percentage != 72.5 {
		t.Fatalf("trend = %+v, %v", tr, err)
	}
	sum, err := svc.ClassSubjectsSummary(ctx, 2)
	if err != nil || len(sum) != 1 || sum[0].Average != 61.25 {
		t.Fatalf("summary = %+v, %v", sum, err)
	}
	ov, err := svc.ClassOverview(ctx, 2)
	if err != nil || ov.Overview.PassRate != 75 || ov.TopStudents[0].StudentName != "Amy" {
		t.Fatalf("overview = %+v, %v", ov, err)
	}
}

func TestReportURL(t *testing.T) {
	c, err := httpx.New(httpx.WithOrigins(httpx.OriginPolicy{Override: "https://api.example.com/"}))
	if err != nil {
		t.Fatalf("httpx.New: %v", err)
	}
	svc := NewService(c, nil)

	if got := svc.ReportURL(3, ""); got != "https://api.example.com/reports/student/3?term=Term+1" {
		t.Fatalf("ReportURL = %q", got)
	}
	if got := svc.ReportURL(3, "Term 2&x"); got != "https://api.example.com/reports/student/3?term=Term+2%26x" {
		t.Fatalf("ReportURL = %q", got)
	}
}
