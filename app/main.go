package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-lists/app/config"
	"todo-lists/app/controllers"
	"todo-lists/app/routes"
	"todo-lists/app/services"

	"github.com/gorilla/mux"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	confFlagName    = "conf"
	levelFlagName   = "level"
	addrFlagName    = "addr"
	backendFlagName = "backend"
	mongoFlagName   = "mongo-uri"
	neo4jFlagName   = "neo4j-uri"
)

func main() {
	grip.EmergencyFatal(buildApp().Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "todo"
	app.Usage = "todo lists HTTP API"
	app.Commands = []cli.Command{
		serve(),
		ping(),
	}
	return app
}

func configFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(confFlagName, "config", "c"),
			Usage: "path to a TOML configuration file (default: ./" + config.DefaultConfigFile + " if present)",
		},
		cli.StringFlag{
			Name:  levelFlagName,
			Usage: "lowest visible log level: 'emergency|alert|critical|error|warning|notice|info|debug|trace'",
		},
		cli.StringFlag{
			Name:  backendFlagName,
			Usage: "document store backend: 'mongo' or 'neo4j'",
		},
		cli.StringFlag{
			Name:  mongoFlagName,
			Usage: "MongoDB connection string",
		},
		cli.StringFlag{
			Name:  neo4jFlagName,
			Usage: "Neo4j connection URI",
		},
	)
}

func joinFlagNames(ids ...string) string {
	out := ids[0]
	for _, id := range ids[1:] {
		out += ", " + id
	}
	return out
}

// loadConfig reads the configuration and applies the flags set on the
// command line on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String(confFlagName))
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		levelFlagName:   &cfg.Log.Level,
		addrFlagName:    &cfg.HTTP.Addr,
		backendFlagName: &cfg.Store.Backend,
		mongoFlagName:   &cfg.Mongo.URI,
		neo4jFlagName:   &cfg.Neo4j.URI,
	}
	for name, field := range overrides {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := config.SetupLogging(c.App.Name, cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve() cli.Command {
	return cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: configFlags(cli.StringFlag{
			Name:  addrFlagName,
			Usage: "address to listen on",
		}),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := config.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			router := mux.NewRouter()
			routes.RegisterRoutes(router, routes.Controllers{
				Lists:  controllers.NewListController(store),
				Items:  controllers.NewItemController(store),
				Health: controllers.NewHealthController(store),
			})

			srv := &http.Server{
				Addr:    cfg.HTTP.Addr,
				Handler: router,
			}

			serveErr := listen(srv.ListenAndServe)

			grip.Notice(message.Fields{
				"message": "server is running",
				"addr":    cfg.HTTP.Addr,
				"backend": cfg.Store.Backend,
			})

			select {
			case err := <-serveErr:
				if !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "serving http")
				}
				return nil
			case <-ctx.Done():
			}

			grip.Notice("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeoutSecs)*time.Second)
			defer cancel()
			return errors.Wrap(srv.Shutdown(shutdownCtx), "shutting down http server")
		},
	}
}

// listen runs serve in its own goroutine. Its error, or the panic it raised,
// is delivered on the returned channel.
func listen(serve func() error) <-chan error {
	out := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			out <- recovery.HandlePanicWithError(recover(), err, "http server")
		}()
		err = serve()
	}()
	return out
}

func closeStore(store services.Store) {
	grip.Warning(message.WrapError(store.Close(context.Background()), message.Fields{
		"message": "closing store",
	}))
}

func ping() cli.Command {
	return cli.Command{
		Name:  "ping",
		Usage: "check that the configured store is reachable",
		Flags: configFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			store, err := config.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := store.Ping(ctx); err != nil {
				return err
			}
			grip.Notice(message.Fields{
				"message": "store is reachable",
				"backend": cfg.Store.Backend,
			})
			return nil
		},
	}
}
