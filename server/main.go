package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"
	"github.com/ponyo877/chatroom/server/adaptor"
	"github.com/ponyo877/chatroom/server/config"
	"github.com/ponyo877/chatroom/server/domain"
	"github.com/ponyo877/chatroom/server/logging"
	"github.com/ponyo877/chatroom/server/repository"
	"github.com/ponyo877/chatroom/server/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := newServerCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "chatroom-server",
		Short:        "Runs the chat room gRPC server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(v, cfgFile); err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				port, _ := cmd.Flags().GetInt("port")
				v.Set("grpc_address", fmt.Sprintf(":%d", port))
			}
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync() // best-effort flush

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg, logger); err != nil {
				logger.Error("server exited with error", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "Path to YAML/JSON config file (optional)")
	cmd.Flags().Int("port", config.DefaultPort, "gRPC listening port")
	cmd.Flags().Duration("heartbeat", usecase.DefaultHeartbeatInterval, "Liveness probe interval")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().String("admin-address", ":8080", "Address of the metrics/health/websocket server, empty to disable")
	cmd.Flags().String("store-driver", repository.DriverMemory, "Store backend (memory, sqlite)")
	bindFlags(v, cmd, map[string]string{
		"heartbeat_interval": "heartbeat",
		"log_level":          "log-level",
		"admin.address":      "admin-address",
		"store.driver":       "store-driver",
	})
	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := repository.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	room := usecase.NewChatRoom(store, domain.NewSessionRegistry(), domain.NewSubscriberTable(), usecase.Options{
		Logger:  logger,
		Metrics: usecase.NewMetrics(reg),
	})
	usecase.NewMonitor(room, cfg.HeartbeatInterval).Start(ctx)

	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCAddress, err)
	}

	grpcServer := grpc.NewServer()
	pb.RegisterChatRoomServer(grpcServer, adaptor.NewAdaptor(room, logger))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	var ready atomic.Bool
	var adminHTTP *http.Server
	if cfg.Admin.Address != "" {
		adminHTTP = &http.Server{
			Addr:              cfg.Admin.Address,
			Handler:           adaptor.NewAdminRouter(reg, ready.Load, adaptor.NewWebSocketAdaptor(room, logger)),
			ReadHeaderTimeout: cfg.Admin.ReadHeaderTimeout,
		}
		go func() {
			if err := adminHTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("admin server stopped", zap.Error(err))
			}
		}()
		logger.Info("admin server listening", zap.String("address", cfg.Admin.Address))
	}

	go func() {
		<-ctx.Done()
		ready.Store(false)
		healthServer.Shutdown()
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		shutdown(stopCtx, logger, grpcServer, adminHTTP)
	}()

	healthServer.SetServingStatus(pb.ChatRoom_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	ready.Store(true)
	logger.Info("gRPC server listening",
		zap.String("address", cfg.GRPCAddress),
		zap.Duration("heartbeat_interval", cfg.HeartbeatInterval),
		zap.String("store", cfg.Store.Driver),
	)
	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// shutdown attempts a graceful stop before forcing termination. Open message
// streams never end on their own, so the forced stop is the common path.
func shutdown(ctx context.Context, logger *zap.Logger, grpcServer *grpc.Server, adminHTTP *http.Server) {
	if adminHTTP != nil {
		if err := adminHTTP.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("admin server shutdown", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("gRPC server stopped")
	case <-ctx.Done():
		logger.Warn("graceful shutdown timed out; forcing stop")
		grpcServer.Stop()
	}
}
