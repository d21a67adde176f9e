package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/clientlog/internal/aggregator"
	"github.com/atikulmunna/clientlog/internal/config"
	"github.com/atikulmunna/clientlog/internal/hub"
	"github.com/atikulmunna/clientlog/internal/logstore"
	"github.com/atikulmunna/clientlog/internal/output"
	"github.com/atikulmunna/clientlog/internal/server"
	"github.com/atikulmunna/clientlog/internal/static"
	"github.com/atikulmunna/clientlog/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve static files and collect client logs",
	Long: `Serve files from the base directory and accept log entries on POST /log.

The log file is truncated on every start. Examples:
  clientlog serve
  clientlog serve --port 9000 --dir ./public
  clientlog serve --deny client-logs.txt --deny "**/.*" --output json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	bindServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func bindServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntP("port", "p", config.DefaultPort, "port to listen on")
	f.StringP("dir", "d", config.DefaultBaseDir, "base directory for static files")
	f.String("log-file", config.DefaultLogFile, "log file path (relative paths resolve against --dir)")
	f.StringP("output", "o", config.DefaultOutput, "console echo format: text, json")
	f.StringSlice("deny", nil, "glob of static paths never served (repeatable)")
	f.Bool("pprof", false, "mount /debug/pprof endpoints")
	f.Bool("verbose", false, "log every request")
}

func runServe(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if v.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	gin.SetMode(gin.ReleaseMode)

	// --- Set up context with graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Initialize log file ---
	store := logstore.NewFileStore(cfg.LogFile)
	if err := store.Init(time.Now()); err != nil {
		return err
	}

	console, err := output.New(cfg.Output)
	if err != nil {
		return err
	}

	// --- Start pipeline ---
	h := hub.New(log)
	agg := aggregator.New(h.Subscribe(), h.Dropped)
	go h.Start(ctx)
	go agg.Start(ctx)

	w, err := watcher.New(store.Path(), log)
	if err != nil {
		log.WithError(err).Warn("log file watcher disabled")
	} else {
		go w.Start(ctx)
		go reportLogFileChanges(w, log)
	}

	srv := server.New(cfg, server.Deps{
		Store:      store,
		Files:      static.New(cfg.BaseDir, cfg.Deny),
		Console:    console,
		Hub:        h,
		Aggregator: agg,
		Log:        log,
	})

	ln, err := srv.Listen()
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	fmt.Printf("Server running at %s\n", cfg.URL())
	fmt.Printf("View logs at: %sview-logs\n", cfg.URL())
	fmt.Printf("Logs are being written to: %s\n", store.Path())

	if err := srv.Serve(ctx, ln); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	fmt.Fprintln(os.Stderr, "clientlog shut down")
	return nil
}

// reportLogFileChanges logs when the log file is removed or recreated externally.
func reportLogFileChanges(w *watcher.Watcher, log logrus.FieldLogger) {
	for ev := range w.Events {
		switch {
		case ev.Removed():
			log.WithField("path", ev.Path).Warn("log file removed; /view-logs returns 404 until the next entry recreates it")
		case ev.Created():
			log.WithField("path", ev.Path).Info("log file created")
		}
	}
}
