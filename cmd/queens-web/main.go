package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/codex-queens/internal/app"
    "github.com/jaminalder/codex-queens/internal/config"
    "github.com/jaminalder/codex-queens/internal/storage"
    "github.com/jaminalder/codex-queens/internal/web"
)

func main() {
    if err := run(os.Args[1:], os.Stderr); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}

// options are the command-line flags; non-empty values override the config file.
type options struct {
    configPath string
    addr       string
    dataDir    string
    logLevel   string
    memory     bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
    var o options
    fs := flag.NewFlagSet("queens-web", flag.ContinueOnError)
    fs.SetOutput(out)
    fs.StringVar(&o.configPath, "config", "", "path to an HCL config file")
    fs.StringVar(&o.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
    fs.StringVar(&o.dataDir, "data", "", "highscore directory (default "+config.DefaultDataDir+")")
    fs.StringVar(&o.logLevel, "log-level", "", "debug|info|warn|error")
    fs.BoolVar(&o.memory, "memory", false, "keep highscores in memory only")
    err := fs.Parse(args)
    return o, err
}

// loadConfig merges the config file with flag overrides.
func loadConfig(o options) (*config.Config, error) {
    cfg, err := config.Load(o.configPath)
    if err != nil {
        return nil, err
    }
    if o.addr != "" {
        cfg.Addr = o.addr
    }
    if o.dataDir != "" {
        cfg.DataDir = o.dataDir
    }
    if o.logLevel != "" {
        cfg.LogLevel = o.logLevel
    }
    return cfg, nil
}

func newStore(o options, cfg *config.Config) app.HighscoreStore {
    if o.memory {
        return storage.NewMemory()
    }
    return storage.NewFS(cfg.DataDir)
}

func run(args []string, logOut io.Writer) error {
    o, err := parseFlags(args, logOut)
    if errors.Is(err, flag.ErrHelp) {
        return nil
    }
    if err != nil {
        return err
    }
    cfg, err := loadConfig(o)
    if err != nil {
        return err
    }
    logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.Level()}))

    // Wire store → service → HTTP
    svc := app.NewService(app.Options{
        Avatars: cfg.Avatars,
        Store:   newStore(o, cfg),
        Logger:  logger,
        MinSize: cfg.MinSize,
        MaxSize: cfg.MaxSize,
    })
    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.NewServer(svc, logger),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    errCh := make(chan error, 1)
    go func() {
        logger.Info("listening", "addr", cfg.Addr, "data", cfg.DataDir, "avatars", len(cfg.Avatars))
        errCh <- srv.ListenAndServe()
    }()

    select {
    case err := <-errCh:
        if errors.Is(err, http.ErrServerClosed) {
            return nil
        }
        return err
    case <-ctx.Done():
    }
    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    return srv.Shutdown(shutdownCtx)
}
