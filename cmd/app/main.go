package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	sqliteadapter "github.com/karilint/bones/internal/adapters/db/sqlite"
	httpadapter "github.com/karilint/bones/internal/adapters/http"
	rpcadapter "github.com/karilint/bones/internal/adapters/rpcjson"
	"github.com/karilint/bones/internal/application"
	"github.com/karilint/bones/internal/config"
	"github.com/karilint/bones/internal/domain"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "bones",
		Usage: "Field survey data management server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			authCommand(),
			statsCommand(),
			transectsCommand(),
			occurrencesCommand(),
			workflowsCommand(),
			logsCommand(),
			historyCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, config.Default())
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serverCommand() *cli.Command {
	defaults := config.Default()
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file path"},
			&cli.StringFlag{Name: "addr", Value: defaults.Addr, Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "rpc-socket", Value: defaults.RPCSocket, Usage: "JSON-RPC unix socket path"},
			&cli.StringFlag{Name: "db-path", Value: defaults.DBPath, Usage: "SQLite database path"},
			&cli.StringFlag{Name: "bootstrap-admin-email", Value: defaults.BootstrapEmail, Usage: "initial admin email"},
			&cli.StringFlag{Name: "bootstrap-admin-password", Value: defaults.BootstrapPassword, Usage: "initial admin password when users are empty"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Addr = c.String("addr")
			}
			if c.IsSet("rpc-socket") {
				cfg.RPCSocket = c.String("rpc-socket")
			}
			if c.IsSet("db-path") {
				cfg.DBPath = c.String("db-path")
			}
			if c.IsSet("bootstrap-admin-email") {
				cfg.BootstrapEmail = c.String("bootstrap-admin-email")
			}
			if c.IsSet("bootstrap-admin-password") {
				cfg.BootstrapPassword = c.String("bootstrap-admin-password")
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return err
	}

	repo := sqliteadapter.NewSurveyRepository(db)
	service := application.NewSurveyService(repo, logger)
	if err := service.BootstrapAdmin(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword); err != nil {
		return err
	}

	router := httpadapter.NewRouter(service, logger)
	srv := &http.Server{Addr: cfg.Addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(cfg.RPCSocket, service)
	if err != nil {
		return err
	}

	defer func() {
		_ = rpcSrv.Close()
	}()
	logger.Info("json-rpc listening", zap.String("socket", cfg.RPCSocket))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authentication commands",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Login and store CLI token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Value: "uds"},
					&cli.StringFlag{Name: "server", Value: "http://127.0.0.1:8080"},
					&cli.StringFlag{Name: "socket", Value: "/tmp/bones.sock"},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "token-name", Value: "cli"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := cliConfig{Transport: c.String("transport"), Server: c.String("server"), Socket: c.String("socket")}
					var out struct {
						Token string `json:"token"`
						Email string `json:"email"`
					}
					err := doLogin(ctx, cfg, c.String("email"), c.String("password"), c.String("token-name"), &out)
					if err != nil {
						return err
					}
					cfg.Token = out.Token
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("logged in as %s\n", out.Email)
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "Show current authenticated user",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out struct {
						ID    uint   `json:"id"`
						Email string `json:"email"`
					}
					if err := doWhoAmI(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{{"id", uintToString(out.ID)}, {"email", out.Email}})
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "Clear local CLI auth token",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					_ = doLogout(ctx, cfg)
					cfg.Token = ""
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Println("logged out")
					return nil
				},
			},
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Survey statistics",
		Commands: []*cli.Command{
			{
				Name:  "dashboard",
				Usage: "Show dashboard counts",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.DashboardCounts
					if err := doStatsDashboard(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printDashboardCounts(out)
					return nil
				},
			},
		},
	}
}

func transectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "transects",
		Usage: "Completed transect commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List completed transects",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "state"},
					&cli.StringFlag{Name: "template-id"},
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out listResult[domain.CompletedTransect]
					if err := doTransectsList(ctx, cfg, c.String("state"), c.String("template-id"), c.Int("page"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printTransects(out.Items)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one transect",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "uid", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.CompletedTransect
					if err := doTransectsGet(ctx, cfg, c.Uint("uid"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printTransect(out)
					return nil
				},
			},
		},
	}
}

func occurrencesCommand() *cli.Command {
	return &cli.Command{
		Name:  "occurrences",
		Usage: "Completed occurrence commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List completed occurrences",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "state"},
					&cli.UintFlag{Name: "transect-uid"},
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var transectUID *uint
					if c.IsSet("transect-uid") {
						v := c.Uint("transect-uid")
						transectUID = &v
					}
					var out listResult[domain.CompletedOccurrence]
					if err := doOccurrencesList(ctx, cfg, c.String("state"), transectUID, c.Int("page"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printOccurrences(out.Items)
					return nil
				},
			},
		},
	}
}

func workflowsCommand() *cli.Command {
	return &cli.Command{
		Name:  "workflows",
		Usage: "Completed workflow commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List completed workflows",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "occurrence-id"},
					&cli.StringFlag{Name: "completed-by"},
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var occurrenceID *uint
					if c.IsSet("occurrence-id") {
						v := c.Uint("occurrence-id")
						occurrenceID = &v
					}
					var out listResult[domain.CompletedWorkflow]
					if err := doWorkflowsList(ctx, cfg, occurrenceID, c.String("completed-by"), c.Int("page"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printWorkflows(out.Items)
					return nil
				},
			},
		},
	}
}

func logsCommand() *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Data log upload commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List uploaded data log files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uploaded-by"},
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out listResult[domain.DataLogFile]
					if err := doLogsList(ctx, cfg, c.String("uploaded-by"), c.Int("page"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printDataLogFiles(out.Items)
					return nil
				},
			},
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Audit history commands",
		Commands: []*cli.Command{
			{
				Name:  "recent",
				Usage: "Show recent changes across all record types",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 50},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.HistoryEntry
					if err := doHistoryRecent(ctx, cfg, c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printHistory(out)
					return nil
				},
			},
		},
	}
}

// listResult mirrors the {items, total} envelope both transports return.
type listResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
