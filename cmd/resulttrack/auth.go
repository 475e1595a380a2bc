package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/BADARRASHEED/Student-Result-Tracking/session"
)

func (a *app) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				p, err := a.readPassword()
				if err != nil {
					return err
				}
				password = p
			}
			res, err := a.svc.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			name := res.Name
			if name == "" {
				name = username
			}
			fmt.Fprintf(a.out, "Signed in as %s (%s)\n", name, res.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func (a *app) readPassword() (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.errOut, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

type whoami struct {
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := session.Token(a.store); !ok {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			role, _ := session.Role(a.store)
			name, _ := session.Name(a.store)
			tok, _ := session.Token(a.store)
			w := whoami{Name: name, Role: role}
			if c, err := session.ParseClaims(tok); err == nil {
				w.Subject = c.Subject
				if !c.ExpiresAt.IsZero() {
					exp := c.ExpiresAt
					w.ExpiresAt = &exp
				}
				w.Expired = c.Expired(time.Now())
			} else {
				a.logger.Debug("token claims unreadable", "err", err)
			}

			if a.jsonOutput() {
				return a.printJSON(w)
			}
			fmt.Fprintf(a.out, "Welcome %s\n", w.Name)
			fmt.Fprintf(a.out, "role:    %s\n", w.Role)
			if w.Subject != "" {
				fmt.Fprintf(a.out, "account: %s\n", w.Subject)
			}
			if w.ExpiresAt != nil {
				state := "valid"
				if w.Expired {
					state = "expired"
				}
				fmt.Fprintf(a.out, "expires: %s (%s)\n", w.ExpiresAt.Local().Format(time.RFC1123), state)
			}
			return nil
		},
	}
}
