package session

import (
	"errors"
	"testing"
)

type failingStore struct{ err error }

func (f failingStore) Load() (Session, error) { return Session{}, f.err }
func (f failingStore) Save(Session) error     { return f.err }
func (f failingStore) Clear() error           { return f.err }

func TestSaveAuthThenClearAuth(t *testing.T) {
	st := NewMemoryStore()

	if err := SaveAuth(st, "tok", "TEACHER", "Tina"); err != nil {
		t.Fatalf("SaveAuth: %v", err)
	}
	if tok, ok := Token(st); !ok || tok != "tok" {
		t.Fatalf("Token = %q, %v", tok, ok)
	}
	if role, ok := Role(st); !ok || role != "TEACHER" {
		t.Fatalf("Role = %q, %v", role, ok)
	}
	if name, ok := Name(st); !ok || name != "Tina" {
		t.Fatalf("Name = %q, %v", name, ok)
	}

	if err := ClearAuth(st); err != nil {
		t.Fatalf("ClearAuth: %v", err)
	}
	for label, get := range map[string]func(Store) (string, bool){"token": Token, "role": Role, "name": Name} {
		if v, ok := get(st); ok || v != "" {
			t.Errorf("%s after clear = %q, %v", label, v, ok)
		}
	}
}

func TestSaveAuthReplacesAllFields(t *testing.T) {
	st := NewMemoryStore()
	_ = SaveAuth(st, "a", "ADMIN", "Ann")
	_ = SaveAuth(st, "b", "TEACHER", "")

	s, _ := st.Load()
	if s != (Session{Token: "b", Role: "TEACHER"}) {
		t.Fatalf("session = %+v", s)
	}
	if _, ok := Name(st); ok {
		t.Fatalf("empty name reported as present")
	}
}

func TestHelpersWithoutStore(t *testing.T) {
	if err := SaveAuth(nil, "t", "r", "n"); err != nil {
		t.Fatalf("SaveAuth(nil): %v", err)
	}
	if err := ClearAuth(nil); err != nil {
		t.Fatalf("ClearAuth(nil): %v", err)
	}
	if _, ok := Role(nil); ok {
		t.Fatalf("Role(nil) reported a value")
	}
	if _, ok := Name(nil); ok {
		t.Fatalf("Name(nil) reported a value")
	}
}

func TestHelpersOnFailingStore(t *testing.T) {
	boom := errors.New("disk gone")
	st := failingStore{err: boom}

	if err := SaveAuth(st, "t", "r", "n"); !errors.Is(err, boom) {
		t.Fatalf("SaveAuth err = %v", err)
	}
	if _, ok := Token(st); ok {
		t.Fatalf("Token reported a value")
	}
}

func TestSessionEmpty(t *testing.T) {
	if !(Session{}).Empty() {
		t.Fatalf("zero session not empty")
	}
	if (Session{Name: "x"}).Empty() {
		t.Fatalf("session with name reported empty")
	}
}
