package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/pokerloft/chipledger/internal/api"
	"github.com/pokerloft/chipledger/internal/infra/logging"
	"github.com/pokerloft/chipledger/internal/infra/pgutils"
	redisidem "github.com/pokerloft/chipledger/internal/repos/idempotency/redis"
	"github.com/pokerloft/chipledger/internal/rpc"
	"github.com/pokerloft/chipledger/internal/services/wallet"
	"github.com/pokerloft/chipledger/pkg/envconf"
	"github.com/pokerloft/chipledger/pkg/shutdownqueue"
	"github.com/pokerloft/chipledger/pkg/walletrpc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

//nolint:funlen
func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout())
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return dbConns.Close()
	})

	walletCfg := wallet.Config{
		DefaultReservationTimeout: cfg.Wallet.ReservationDefaultTimeout,
		IdempotencyRetention:      cfg.Wallet.IdempotencyRetention,
		SweepInterval:             cfg.Wallet.SweepInterval,
	}

	var opts []wallet.Option

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		err = rdb.Ping(ctx).Err()
		if err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}

		shutdownqueue.Add(func(context.Context) error {
			return rdb.Close()
		})

		opts = append(opts, wallet.WithCache(redisidem.New(rdb, walletCfg.IdempotencyRetention)))

		slog.Info("idempotency cache enabled", "addr", cfg.Redis.Addr)
	}

	walletSrv := wallet.New(dbConns, walletCfg, opts...)

	// --- Background sweeper ---
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	go walletSrv.RunSweeper(sweepCtx)

	shutdownqueue.Add(func(context.Context) error {
		cancelSweep()
		return nil
	})

	errCh := make(chan error, 2)

	// --- HTTP server ---
	srv := api.NewServer(cfg.HTTPPort, walletSrv)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down http server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	// --- gRPC server ---
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	grpcSrv := grpc.NewServer()
	walletrpc.RegisterWalletServiceServer(grpcSrv, rpc.NewServer(walletSrv))

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Shut down grpc server")
		grpcSrv.GracefulStop()

		return nil
	})

	go func() {
		serr := grpcSrv.Serve(lis)
		if serr != nil && !errors.Is(serr, grpc.ErrServerStopped) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	// --- Wait until either context cancels or a server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
