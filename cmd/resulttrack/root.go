package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BADARRASHEED/Student-Result-Tracking/api"
	"github.com/BADARRASHEED/Student-Result-Tracking/config"
	"github.com/BADARRASHEED/Student-Result-Tracking/httpx"
	"github.com/BADARRASHEED/Student-Result-Tracking/session"
	"github.com/BADARRASHEED/Student-Result-Tracking/version"
)

const appName = "resulttrack"

// app holds everything a command needs once flags and config are resolved.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfgPath string
	base    string
	output  string
	verbose bool
	trace   bool

	// transport replaces the default transport; tests point it at httptest servers.
	transport http.RoundTripper

	settings *config.Config[config.Settings]
	logger   *slog.Logger
	store    session.Store
	client   *httpx.Client
	svc      *api.Service
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Student result tracking client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "config file (yaml, json or toml)")
	f.StringVar(&a.base, "base", "", "primary API origin, overrides config and "+config.EnvPrefix+"_API_BASE")
	f.StringVarP(&a.output, "output", "o", "table", "output format (table, json)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	f.BoolVar(&a.trace, "trace", false, "print every origin attempt to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.studentsCmd(),
		listCmd(a, "classes", "List classes", func(ctx context.Context) ([]api.Class, error) {
			return a.svc.Classes(ctx)
		}, a.printClasses),
		listCmd(a, "subjects", "List subjects", func(ctx context.Context) ([]api.Subject, error) {
			return a.svc.Subjects(ctx)
		}, a.printSubjects),
		listCmd(a, "assessments", "List assessments", func(ctx context.Context) ([]api.Assessment, error) {
			return a.svc.Assessments(ctx)
		}, a.printAssessments),
		a.marksCmd(),
		a.analyticsCmd(),
		a.reportURLCmd(),
		a.originsCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadSettings(a.cfgPath)
	if err != nil {
		return err
	}
	a.settings = cfg
	s := cfg.Get()

	if a.logger, err = a.newLogger(s.Log); err != nil {
		return err
	}

	if a.store, err = openStore(s.Session); err != nil {
		return err
	}

	origins := s.API.Origins()
	if a.base != "" {
		origins.Override = a.base
	}
	rt := a.transport
	if rt == nil {
		rt = httpx.NewTransport(s.API.Transport())
	}
	a.client, err = httpx.New(
		httpx.WithOrigins(origins),
		httpx.WithSession(a.store),
		httpx.WithTimeout(s.API.Timeout),
		httpx.WithTransport(rt),
		httpx.WithUserAgent(version.Get().UserAgent(appName)),
		httpx.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	if a.trace {
		a.client.WithHooks(nil, []httpx.AfterHook{a.traceAttempt})
	}

	// Long running commands pick up origin changes from the config file.
	cfg.OnChange(func(old, new config.Settings) {
		if !config.Changed(old.API, new.API) {
			return
		}
		p := new.API.Origins()
		if a.base != "" {
			p.Override = a.base
		}
		if err := a.client.SetOrigins(p); err != nil {
			a.logger.Error("config reload: origins rejected", "err", err)
			return
		}
		a.logger.Info("config reloaded", "candidates", strings.Join(p.Candidates(), ","))
	})

	a.svc = api.NewService(a.client, a.store, api.WithServiceLogger(a.logger))
	return nil
}

func (a *app) newLogger(ls config.LogSettings) (*slog.Logger, error) {
	lvl, err := ls.SlogLevel()
	if err != nil {
		return nil, err
	}
	if a.verbose {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(ls.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(a.errOut, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(a.errOut, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log.format %q", ls.Format)
	}
}

func openStore(ss config.SessionSettings) (session.Store, error) {
	path := ss.Path
	if path == "" {
		p, err := session.DefaultPath(appName)
		if err != nil {
			// No user config dir: run without persistence.
			return nil, nil
		}
		path = p
	}
	fs, err := session.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (a *app) traceAttempt(req *http.Request, resp *http.Response, err error, dur time.Duration, attempt int) {
	switch {
	case err != nil:
		fmt.Fprintf(a.errOut, "#%d %s %s -> %v (%s)\n", attempt, req.Method, req.URL, err, dur.Round(time.Millisecond))
	default:
		fmt.Fprintf(a.errOut, "#%d %s %s -> %d (%s)\n", attempt, req.Method, req.URL, resp.StatusCode, dur.Round(time.Millisecond))
	}
}
