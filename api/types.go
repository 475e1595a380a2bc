package api

import "time"

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Name        string `json:"name"`
}

type Student struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	RollNumber string  `json:"roll_number"`
	ClassID    int64   `json:"class_id"`
	ExtraInfo  *string `json:"extra_info,omitempty"`
}

type Class struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TeacherID *int64 `json:"teacher_id,omitempty"`
}

type Subject struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	ClassID *int64 `json:"class_id,omitempty"`
}

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct{ time.Time }

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(d.Format(`"2006-01-02"`)), nil
}

type Assessment struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	MaximumMarks int    `json:"maximum_marks"`
	Term         string `json:"term"`
	SubjectID    int64  `json:"subject_id"`
	Date         *Date  `json:"date,omitempty"`
}

type Mark struct {
	ID            int64   `json:"id"`
	StudentID     int64   `json:"student_id"`
	AssessmentID  int64   `json:"assessment_id"`
	MarksObtained float64 `json:"marks_obtained"`
}

// MarkInput is the body of POST /marks/.
type MarkInput struct {
	StudentID     int64   `json:"student_id" validate:"gt=0"`
	AssessmentID  int64   `json:"assessment_id" validate:"gt=0"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
}

type StudentMarkDetail struct {
	Assessment string  `json:"assessment"`
	Subject    string  `json:"subject"`
	Term       string  `json:"term"`
	Maximum    float64 `json:"maximum"`
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
}

type StudentProfile struct {
	ID         int64               `json:"id"`
	Name       string              `json:"name"`
	RollNumber string              `json:"roll_number"`
	ClassID    int64               `json:"class_id"`
	ClassName  *string             `json:"class_name,omitempty"`
	Marks      []StudentMarkDetail `json:"marks"`
}

type TrendPoint struct {
	Assessment string  `json:"assessment"`
	Percentage float64 `json:"percentage"`
	Term       string  `json:"term"`
}

type StudentTrend struct {
	StudentID   int64        `json:"student_id"`
	StudentName string       `json:"student_name"`
	Trend       []TrendPoint `json:"trend"`
}

type SubjectSummary struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
}

type ClassOverview struct {
	ClassName string  `json:"class_name"`
	Average   float64 `json:"average"`
	Minimum   float64 `json:"minimum"`
	Maximum   float64 `json:"maximum"`
	PassRate  float64 `json:"pass_rate"`
}

type TopStudent struct {
	StudentName string  `json:"student_name"`
	Average     float64 `json:"average"`
}

type ClassOverviewResponse struct {
	Overview    ClassOverview `json:"overview"`
	TopStudents []TopStudent  `json:"top_students"`
}

// DashboardCounts are the totals shown on the dashboard.
type DashboardCounts struct {
	Students int `json:"students"`
	Classes  int `json:"classes"`
	Subjects int `json:"subjects"`
}
