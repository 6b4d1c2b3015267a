// Package cli wires the client services behind the knowlab command tree.
// It is presentation only: all state lives in the store, directory and
// services.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/bus"
	"github.com/knowlab/knowlab-cli/internal/config"
	"github.com/knowlab/knowlab-cli/internal/notify"
	"github.com/knowlab/knowlab-cli/internal/service"
	"github.com/knowlab/knowlab-cli/internal/store"
)

// app holds the wired services for the lifetime of one command.
type app struct {
	cfg        *config.Config
	store      store.Store
	bus        *bus.Bus
	board      *notify.Board
	auth       *service.Auth
	directory  *service.Directory
	uploader   *service.Uploader
	summarizer *service.Summarizer
	chat       *service.Chat
	chatLog    *store.ChatLog
	uploads    *store.UploadList
}

var (
	verbose bool
	current *app
)

var rootCmd = &cobra.Command{
	Use:   "knowlab",
	Short: "Upload documents, summarize them and chat about the results",
	Long: `knowlab is the command-line client for the Knowledge Lab
summarization backend.

Upload documents, generate AI summaries, ask follow-up questions scoped
to a summarization session, and listen to spoken narrations. Sessions
and chat history are kept locally and synchronized with the backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

// Execute runs the command tree. Interrupts cancel the command context
// so long-running commands like watch exit cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		teardown()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func setup() error {
	// .env is optional; config falls back to defaults and env vars.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	st, err := store.OpenSQLite(cfg.State.DatabasePath())
	if err != nil {
		return err
	}

	b := bus.New()
	tokens := store.TokenReader{Store: st}
	client := api.NewClient(cfg.Backend.NormalizedBaseURL(), cfg.Backend.Timeout, tokens)
	auth := service.NewAuth(client, st)

	chatLog := store.NewChatLog(st, b)
	uploads := store.NewUploadList(st)
	directory := service.NewDirectory(client, auth, b, chatLog).WithState(st)
	board := notify.NewBoard()

	current = &app{
		cfg:        cfg,
		store:      st,
		bus:        b,
		board:      board,
		auth:       auth,
		directory:  directory,
		uploader:   service.NewUploader(client, auth, uploads, &boardNotifier{board: board}),
		summarizer: service.NewSummarizer(client, auth, directory),
		chat:       service.NewChat(client, chatLog),
		chatLog:    chatLog,
		uploads:    uploads,
	}
	return nil
}

func teardown() {
	if current == nil {
		return
	}
	if err := current.bus.Close(); err != nil {
		log.Debug().Err(err).Msg("bus close failed")
	}
	if err := current.store.Close(); err != nil {
		log.Debug().Err(err).Msg("store close failed")
	}
	current = nil
}
