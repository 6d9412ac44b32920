// Package cli implements portalctl, the terminal client of the network portal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
	"github.com/netondemand/portal/internal/core/service"
	"github.com/netondemand/portal/internal/infrastructure/backend"
	"github.com/netondemand/portal/internal/infrastructure/filestore"
	"github.com/netondemand/portal/pkg/logger"
)

const (
	envPrefix = "PORTALCTL"

	// annotationAnonymous marks commands that run without a stored session.
	annotationAnonymous = "anonymous"
)

// ErrNotLoggedIn is returned when a command needs a session and none is valid.
var ErrNotLoggedIn = errors.New("not logged in or session expired; run `portalctl login`")

var (
	flagAPIURL     string
	flagJSON       bool
	flagProfile    string
	flagLogLevel   string
	flagSessionDir string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", backend.DefaultBaseURL, "backend API base URL")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "json output")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "default", "session profile name")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagSessionDir, "session-dir", "", "directory holding session files (default: user config dir)")
}

// app holds what a command run needs. It is built before every command.
type app struct {
	ctx     context.Context
	profile string
	json    bool
	session *domain.Session

	auth     ports.AuthService
	catalog  ports.CatalogService
	orders   ports.OrderService
	profiles ports.ProfileService
}

var current *app

var rootCmd = &cobra.Command{
	Use:           "portalctl",
	Short:         "Browse the service catalog and manage orders from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		v, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		log := logger.Init(logger.Options{
			Level:   v.GetString("log-level"),
			Pretty:  true,
			Output:  os.Stderr,
			Service: "portalctl",
		})

		a, err := newApp(cmd.Context(), v, log)
		if err != nil {
			return err
		}
		current = a

		if cmd.Annotations[annotationAnonymous] == "true" {
			return nil
		}
		return a.restore()
	},
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && errors.Is(err, domain.ErrUnauthorized) && current != nil && current.session != nil {
		_ = current.auth.Invalidate(context.WithoutCancel(ctx), current.profile)
		return fmt.Errorf("%w (session cleared, run `portalctl login`)", err)
	}
	return err
}

// loadSettings layers PORTALCTL_* environment variables under the flags.
func loadSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

func newApp(ctx context.Context, v *viper.Viper, log zerolog.Logger) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	dir := v.GetString("session-dir")
	if dir == "" {
		var err error
		if dir, err = filestore.DefaultDir(); err != nil {
			return nil, err
		}
	}
	store := filestore.New(dir)

	client := backend.NewClient(backend.Config{BaseURL: v.GetString("api-url")}, log)
	authAPI := backend.NewAuthAPI(client)
	nop := ports.NopRecorder{}

	return &app{
		ctx:      ctx,
		profile:  v.GetString("profile"),
		json:     v.GetBool("json"),
		auth:     service.NewAuthService(authAPI, store, nop, log),
		catalog:  service.NewCatalogService(backend.NewCatalogAPI(client), nil, log),
		orders:   service.NewOrderService(backend.NewOrderAPI(client), filestore.NewSubmitGuard(dir), nop, log),
		profiles: service.NewProfileService(authAPI, store, nop, log),
	}, nil
}

// restore loads the profile's session and puts its token on the context. An
// expired token has already been cleared from disk by the auth service.
func (a *app) restore() error {
	sess, err := a.auth.Restore(a.ctx, a.profile)
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return err
	}
	a.session = sess
	a.ctx = backend.WithToken(a.ctx, sess.AccessToken)
	return nil
}

func (a *app) userID() string {
	if a.session == nil || a.session.User == nil {
		return ""
	}
	return a.session.User.ID
}
