// Package session keeps the signed-in user's token, role and display name
// between runs.
//
// The record is passed around explicitly as a Store. A nil Store stands for
// an environment without persistence: the helpers then do nothing and report
// no value.
package session

// Session is the persisted authentication record.
type Session struct {
	Token string `json:"token" mapstructure:"token"`
	Role  string `json:"role" mapstructure:"role"`
	Name  string `json:"name" mapstructure:"name"`
}

// Empty reports whether no user is signed in.
func (s Session) Empty() bool {
	return s.Token == "" && s.Role == "" && s.Name == ""
}

// Store persists a Session. Save and Clear always write all three fields
// together; there is no partial update.
type Store interface {
	// Load returns the stored session, or a zero Session when nothing is stored.
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// SaveAuth stores token, role and name together.
func SaveAuth(st Store, token, role, name string) error {
	if st == nil {
		return nil
	}
	return st.Save(Session{Token: token, Role: role, Name: name})
}

// ClearAuth removes the stored session.
func ClearAuth(st Store) error {
	if st == nil {
		return nil
	}
	return st.Clear()
}

// Token returns the stored bearer token.
func Token(st Store) (string, bool) {
	return field(st, func(s Session) string { return s.Token })
}

// Role returns the stored role.
func Role(st Store) (string, bool) {
	return field(st, func(s Session) string { return s.Role })
}

// Name returns the stored display name.
func Name(st Store) (string, bool) {
	return field(st, func(s Session) string { return s.Name })
}

func field(st Store, get func(Session) string) (string, bool) {
	if st == nil {
		return "", false
	}
	s, err := st.Load()
	if err != nil {
		return "", false
	}
	v := get(s)
	return v, v != ""
}
