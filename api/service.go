// Package api wraps the result-tracking backend endpoints on top of httpx.
//
// Every call goes through the resilient client. A 401 from any endpoint other
// than login means the stored session is no longer valid: the service clears
// it and returns an error matching ErrSessionExpired.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/BADARRASHEED/Student-Result-Tracking/httpx"
	"github.com/BADARRASHEED/Student-Result-Tracking/session"
)

var (
	ErrSessionExpired = errors.New("session expired, please sign in again")
	ErrInvalidInput   = errors.New("invalid input")
)

// DefaultTerm is the report term used when none is given.
const DefaultTerm = "Term 1"

type Service struct {
	client   *httpx.Client
	store    session.Store
	validate *validator.Validate
	logger   *slog.Logger
}

type ServiceOption func(*Service)

func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns a service using client for transport and st for the
// session. st may be nil when nothing should be persisted.
func NewService(client *httpx.Client, st session.Store, opts ...ServiceOption) *Service {
	s := &Service{
		client:   client,
		store:    st,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Client() *httpx.Client { return s.client }

func (s *Service) Store() session.Store { return s.store }

// call performs one request and applies the 401 convention.
func (s *Service) call(ctx context.Context, path string, dst any, opts ...httpx.RequestOption) error {
	err := s.client.Request(ctx, path, dst, opts...)
	if err == nil {
		return nil
	}
	if httpx.IsHTTPStatus(err, http.StatusUnauthorized) {
		if cerr := session.ClearAuth(s.store); cerr != nil {
			s.logger.Warn("clear session", "err", cerr)
		}
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

func get[T any](ctx context.Context, s *Service, path string, opts ...httpx.RequestOption) (T, error) {
	var out T
	if err := s.call(ctx, path, &out, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (s *Service) Students(ctx context.Context) ([]Student, error) {
	return get[[]Student](ctx, s, "/students/")
}

func (s *Service) Student(ctx context.Context, id int64) (Student, error) {
	return get[Student](ctx, s, "/students/"+idPath(id))
}

func (s *Service) StudentProfile(ctx context.Context, id int64) (StudentProfile, error) {
	return get[StudentProfile](ctx, s, "/students/"+idPath(id)+"/profile")
}

func (s *Service) Classes(ctx context.Context) ([]Class, error) {
	return get[[]Class](ctx, s, "/classes/")
}

func (s *Service) Subjects(ctx context.Context) ([]Subject, error) {
	return get[[]Subject](ctx, s, "/subjects/")
}

func (s *Service) Assessments(ctx context.Context) ([]Assessment, error) {
	return get[[]Assessment](ctx, s, "/assessments/")
}

func (s *Service) Marks(ctx context.Context) ([]Mark, error) {
	return get[[]Mark](ctx, s, "/marks/")
}

// CreateMark validates in and records it.
func (s *Service) CreateMark(ctx context.Context, in MarkInput) (Mark, error) {
	if err := s.checkInput(in); err != nil {
		return Mark{}, err
	}
	return get[Mark](ctx, s, "/marks/",
		httpx.WithMethod(http.MethodPost),
		httpx.WithJSON(in),
	)
}

// CheckMarkAgainst reports an ErrInvalidInput when the mark exceeds the
// assessment maximum.
func CheckMarkAgainst(in MarkInput, a Assessment) error {
	if a.MaximumMarks > 0 && in.MarksObtained > float64(a.MaximumMarks) {
		return fmt.Errorf("%w: marks cannot exceed %d", ErrInvalidInput, a.MaximumMarks)
	}
	return nil
}

func (s *Service) StudentTrend(ctx context.Context, studentID int64) (StudentTrend, error) {
	return get[StudentTrend](ctx, s, "/analytics/student/"+idPath(studentID)+"/trend")
}

func (s *Service) ClassSubjectsSummary(ctx context.Context, classID int64) ([]SubjectSummary, error) {
	return get[[]SubjectSummary](ctx, s, "/analytics/class/"+idPath(classID)+"/subjects-summary")
}

func (s *Service) ClassOverview(ctx context.Context, classID int64) (ClassOverviewResponse, error) {
	return get[ClassOverviewResponse](ctx, s, "/analytics/class/"+idPath(classID)+"/overview")
}

// DashboardCounts loads students, classes and subjects concurrently. Each
// request is independent; the first failure cancels the others.
func (s *Service) DashboardCounts(ctx context.Context) (DashboardCounts, error) {
	var (
		students []Student
		classes  []Class
		subjects []Subject
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = s.Students(gctx)
		return err
	})
	g.Go(func() (err error) {
		classes, err = s.Classes(gctx)
		return err
	})
	g.Go(func() (err error) {
		subjects, err = s.Subjects(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardCounts{}, err
	}
	return DashboardCounts{Students: len(students), Classes: len(classes), Subjects: len(subjects)}, nil
}

// MarkEntryData loads the students and assessments needed to enter a mark.
func (s *Service) MarkEntryData(ctx context.Context) ([]Student, []Assessment, error) {
	var (
		students    []Student
		assessments []Assessment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = s.Students(gctx)
		return err
	})
	g.Go(func() (err error) {
		assessments, err = s.Assessments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return students, assessments, nil
}

// ReportURL returns the report document address on the primary origin. The
// document is meant to be opened directly, not fetched through the client.
func (s *Service) ReportURL(studentID int64, term string) string {
	if strings.TrimSpace(term) == "" {
		term = DefaultTerm
	}
	q := url.Values{}
	q.Set("term", term)
	return s.client.Primary() + "/reports/student/" + idPath(studentID) + "?" + q.Encode()
}

func (s *Service) checkInput(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fieldMessage(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be an email address"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	}
	return fe.Field() + " is invalid"
}

func idPath(id int64) string {
	return strconv.FormatInt(id, 10)
}
