package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/session"
	"github.com/jhoicas/fenix-admin/pkg/config"
	"github.com/jhoicas/fenix-admin/pkg/logger"
)

// cli dependencias compartidas por todos los subcomandos. Se arma en
// PersistentPreRunE para que --help no necesite configuración.
type cli struct {
	out    io.Writer
	errOut io.Writer
	fs     afero.Fs

	cfg      *config.Config
	log      *logger.Logger
	session  api.Session
	client   *api.Client
	gw       *api.Gateways
	closers  []func() error
	baseURL  string
	logLevel string
}

func newRootCmd(out, errOut io.Writer) (*cobra.Command, *cli) {
	c := &cli{out: out, errOut: errOut, fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:           "fenix",
		Short:         "Administración de la tienda Fenix desde la terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.baseURL, "api-url", "", "URL base del backend (por defecto FENIX_API_URL)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "nivel de log (por defecto LOG_LEVEL)")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
	)
	for _, r := range resources() {
		root.AddCommand(c.resourceCmd(r))
	}
	return root, c
}

// execute corre root y cierra lo abierto en setup (Redis) también cuando el
// comando falla. El error del comando tiene prioridad sobre el del cierre.
func execute(ctx context.Context, root *cobra.Command, c *cli) (err error) {
	defer func() {
		if cerr := c.close(); err == nil {
			err = cerr
		}
	}()
	return root.ExecuteContext(ctx)
}

func (c *cli) setup(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.baseURL != "" {
		cfg.API.BaseURL = c.baseURL
	}
	if c.logLevel != "" {
		cfg.App.LogLevel = c.logLevel
	}
	c.cfg = cfg
	c.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: c.errOut})

	store, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	c.session = store

	zl := c.log.Component("api")
	c.client = api.NewClient(api.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		LoginRoute: cfg.API.LoginRoute,
		Logger:     &zl,
	}, store, api.NavigatorFunc(c.navigate))
	c.gw = api.NewGateways(c.client)
	return nil
}

// openSession elige el backend de sesión configurado.
func (c *cli) openSession(ctx context.Context) (api.Session, error) {
	switch c.cfg.Session.Backend {
	case config.SessionRedis:
		store, err := session.NewRedisStore(ctx, c.cfg.Session.RedisAddr, c.cfg.Session.Key, 0)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store.Close)
		return store, nil
	case config.SessionMemory:
		return session.NewMemoryStore(""), nil
	default:
		return session.NewFileStore(c.fs, c.cfg.Session.File, c.cfg.Session.Key), nil
	}
}

func (c *cli) close() error {
	var first error
	for _, fn := range c.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// navigate en la terminal "navegar" al login es indicar cómo volver a entrar.
func (c *cli) navigate(_ context.Context, route string) {
	fmt.Fprintf(c.errOut, "La sesión expiró o no es válida (%s). Inicia sesión con: fenix login\n", route)
}
