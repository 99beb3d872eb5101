package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/staffworks/staffbot/internal/api"
	"github.com/staffworks/staffbot/internal/app/accrual"
	"github.com/staffworks/staffbot/internal/app/invites"
	"github.com/staffworks/staffbot/internal/app/redemption"
	"github.com/staffworks/staffbot/internal/daemon"
	"github.com/staffworks/staffbot/internal/gateway"
	"github.com/staffworks/staffbot/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to config file (default ~/.staffbot/config.toml)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the staffbot daemon",
	Long: `Run the engagement economy daemon: the voice-presence reward loop
and the ops HTTP API. The chat connector attaches as a separate process; until
it does, presence snapshots are empty and deliveries are logged no-ops.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Printf("[daemon] database ready at %s", cfg.Storage.Path)

	// Collaborators: the Offline set until a connector attaches.
	offline := gateway.Offline{}

	voiceScope := accrual.NewChannelScope(cfg.Voice.ActiveChannelIDs, cfg.Voice.DisabledChannels)
	tracker := accrual.NewVoiceTracker(db, offline, offline, voiceScope,
		cfg.Voice.AFKChannelID, cfg.Voice.IdleThreshold, cfg.Voice.TickIntervalDuration())

	textScope := accrual.NewChannelScope(cfg.Rewards.EnabledChannels, cfg.Rewards.DisabledChannels)
	rewarder := accrual.NewMessageRewarder(db, textScope, cfg.Rewards.MessageThreshold, cfg.Rewards.MessageReward)

	workflow := redemption.New(db, db, db, offline, offline)
	inviteSvc := invites.New(db)

	perms := gateway.Permissions{OwnerID: cfg.Bot.OwnerID, AdminIDs: make(map[int64]struct{})}
	for _, id := range cfg.Bot.AdminIDs {
		perms.AdminIDs[id] = struct{}{}
	}
	dispatcher := gateway.NewDispatcher(db, db, workflow, rewarder, inviteSvc, textScope, voiceScope, perms)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go tracker.Run(ctx)

	server := api.NewServer(db, workflow)
	server.SetBridge(&api.Bridge{
		Dispatcher: dispatcher,
		Invites:    inviteSvc,
		Prefix:     cfg.Bot.Prefix,
	})
	if cfg.API.Metrics {
		server.EnableMetrics()
	}
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] ops API listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("[daemon] shutting down")
	case err := <-errCh:
		return fmt.Errorf("ops API: %w", err)
	}
	return httpServer.Shutdown(context.Background())
}
