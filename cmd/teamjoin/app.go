package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teamjoin/go-teamjoin/internal/config"
	"github.com/teamjoin/go-teamjoin/internal/logging"
	"github.com/teamjoin/go-teamjoin/pkg/api"
	"github.com/teamjoin/go-teamjoin/pkg/prompt"
	"github.com/teamjoin/go-teamjoin/pkg/session"
	"github.com/teamjoin/go-teamjoin/pkg/submit"
	"github.com/teamjoin/go-teamjoin/pkg/toast"
)

// errSilent fails the command after the problem was already reported.
var errSilent = errors.New("teamjoin: failed")

// app holds what every command shares. It is populated in the root command's
// PersistentPreRunE.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	apiURL     string
	verbose    bool
	metrics    bool

	newDriver func(out io.Writer) prompt.Driver

	cfg      *config.Config
	logger   *zap.Logger
	store    session.Store
	slot     *toast.Slot
	registry *prometheus.Registry
	ctrl     *submit.Controller
	client   *api.Client
	driver   prompt.Driver
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:       out,
		errOut:    errOut,
		newDriver: prompt.NewSurveyDriver,
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}

	store, err := session.OpenFile(cfg.SessionPath)
	if err != nil {
		return err
	}
	a.store = store

	a.slot = toast.New(
		toast.WithDuration(cfg.ToastDuration),
		toast.WithLogger(a.logger),
		toast.WithListener(a.printToast),
	)

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	a.registry = prometheus.NewRegistry()
	a.ctrl = submit.New(
		submit.WithBaseURL(cfg.APIBaseURL),
		submit.WithHTTPClient(httpClient),
		submit.WithNotifier(a.slot),
		submit.WithLogger(a.logger.Named("submit")),
		submit.WithMetrics(submit.NewMetrics(a.registry)),
	)
	a.client = api.New(
		api.WithBaseURL(cfg.APIBaseURL),
		api.WithHTTPClient(httpClient),
		api.WithStore(a.store),
		api.WithLogger(a.logger.Named("api")),
	)
	a.driver = a.newDriver(a.out)

	a.logger.Debug("teamjoin: ready",
		zap.String("command", cmd.CommandPath()),
		zap.String("api", cfg.APIBaseURL),
		zap.String("session", cfg.SessionPath))
	return nil
}

func (a *app) teardown() {
	if a.slot != nil {
		a.slot.Close()
	}
	if a.metrics && a.registry != nil {
		if err := a.dumpMetrics(a.errOut); err != nil && a.logger != nil {
			a.logger.Warn("teamjoin: metrics dump failed", zap.Error(err))
		}
	}
	if a.logger == nil {
		return
	}
	_ = a.logger.Sync()
	a.logger = nil
}

// dumpMetrics writes the registry in the Prometheus text format.
func (a *app) dumpMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("teamjoin: gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("teamjoin: write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func (a *app) printToast(msg toast.Message, visible bool) {
	if !visible {
		return
	}
	text := toast.Terminal(msg.Text)
	if msg.Kind == toast.KindError {
		fmt.Fprintf(a.errOut, "\033[31m✗\033[0m %s\n", text)
		return
	}
	fmt.Fprintf(a.out, "\033[32m✓\033[0m %s\n", text)
}

// apiErr prints err in the toast slot the way the web client surfaced API
// failures, and returns errSilent.
func (a *app) apiErr(err error) error {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		a.slot.Show(apiErr.Detail, toast.KindError)
	case errors.Is(err, api.ErrNoToken):
		a.slot.Show("No authentication token found. Run `teamjoin login` first.", toast.KindError)
	default:
		a.logger.Debug("teamjoin: request failed", zap.Error(err))
		a.slot.Show(submit.MessageNetwork, toast.KindError)
	}
	return errSilent
}
