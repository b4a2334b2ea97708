package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/api"
	"github.com/abya-university/ABYA-Ecosystem-sub001/config"
	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
	"github.com/abya-university/ABYA-Ecosystem-sub001/exception"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/monitoring"
	"github.com/abya-university/ABYA-Ecosystem-sub001/store"
	"github.com/abya-university/ABYA-Ecosystem-sub001/treasury"
)

var (
	serveGenesisPath string
	serveConfigPath  string
	serveListenAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the treasury node",
	Long: `Run the treasury node:
- Loading genesis roles and reserve from the genesis file (applied once)
- Loading quorum, expiry and API limits from the ini file
- Serving the HTTP API and prometheus metrics
- Sweeping expired funding requests periodically`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runNode(); err != nil {
			logx.Error("NODE", "node stopped with error: ", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveGenesisPath, "genesis", "config/genesis.yml", "Path to genesis configuration file")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/treasury.ini", "Path to treasury ini file")
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "API listen address, overrides genesis node.listen_addr")
}

func runNode() error {
	monitoring.InitMetrics()

	genesis, err := config.LoadGenesisConfig(serveGenesisPath)
	if err != nil {
		return err
	}
	treasuryCfg, err := config.LoadTreasuryConfig(serveConfigPath)
	if err != nil {
		return err
	}
	apiCfg, err := config.LoadAPIConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if serveListenAddr != "" {
		genesis.Node.ListenAddr = serveListenAddr
	}

	st, err := store.CreateStore(&genesis.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.MustClose()

	quorum, err := treasury.NewQuorumPolicy(treasuryCfg.QuorumMode, treasuryCfg.Quorum, treasuryCfg.QuorumFraction)
	if err != nil {
		return err
	}
	bus := events.NewEventBus()
	svc, err := treasury.NewService(st,
		treasury.WithQuorumPolicy(quorum),
		treasury.WithExpiryWindow(treasuryCfg.ExpiryWindow()),
		treasury.WithCategories(genesis.Categories...),
		treasury.WithEventBus(bus),
	)
	if err != nil {
		return err
	}

	reserve, err := genesis.Reserve()
	if err != nil {
		return err
	}
	if err := svc.Bootstrap(treasury.Genesis{
		Admin:          genesis.AdminAddress(),
		Trustees:       genesis.TrusteeAddresses(),
		Treasurers:     genesis.TreasurerAddresses(),
		InitialReserve: reserve,
	}); err != nil {
		return fmt.Errorf("failed to apply genesis: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	subID, eventCh := bus.Subscribe()
	exception.SafeGo("event-logger", func() { logEvents(eventCh) })
	exception.SafeGo("expiry-sweeper", func() { svc.RunExpirySweeper(ctx, treasuryCfg.SweepInterval()) })

	server := api.NewServer(svc, api.Options{
		RateLimit:    apiCfg.RateLimit,
		RateWindow:   apiCfg.RateWindow(),
		MaxClockSkew: apiCfg.MaxClockSkew(),
		MaxBodyBytes: int64(apiCfg.MaxBodyBytes),
	})
	server.Start(genesis.Node.ListenAddr)

	metricsServer := startMetricsServer(genesis.Node.MetricsAddr)

	logx.Info("NODE", fmt.Sprintf("treasury node running | quorum=%s | expiry=%s | categories=%v",
		svc.QuorumPolicy(), svc.ExpiryWindow(), svc.Categories()))
	<-ctx.Done()
	logx.Info("NODE", "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error("NODE", "api shutdown: ", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logx.Error("NODE", "metrics shutdown: ", err)
		}
	}
	bus.Unsubscribe(subID)
	return nil
}

func startMetricsServer(addr string) *http.Server {
	if addr == "" {
		logx.Warn("NODE", "metrics disabled")
		return nil
	}
	mux := http.NewServeMux()
	monitoring.RegisterMetrics(mux)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	exception.SafeGo("metrics-server", func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("NODE", "metrics server stopped: ", err)
		}
	})
	return srv
}

// logEvents writes the committed event stream to the node log
func logEvents(ch <-chan events.TreasuryEvent) {
	for ev := range ch {
		logx.Info("EVENT", fmt.Sprintf("%s | subject=%s | at=%s", ev.Type(), ev.Subject(), ev.Timestamp().UTC().Format(time.RFC3339)))
	}
}
