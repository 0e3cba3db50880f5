// directory-gateway
//
// Read-only gateway over the business directory database (Supabase Postgres).
// Exposes a bearer-token protected JSON API used by the chat front end:
//   - GET /api/categories, /api/locations   id → name lookups (Redis cached)
//   - GET /api/search                        ranked company search
//   - GET /api/user/status                   subscription status by phone
//   - GET /api/stats                         table counts
//
// The same operations are served over gRPC when GRPC_PORT is set.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"bizdir/directory-gateway/internal/config"
	"bizdir/directory-gateway/internal/db"
	"bizdir/directory-gateway/internal/directory"
	"bizdir/directory-gateway/internal/grpcserver"
	"bizdir/directory-gateway/internal/scheduler"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[directory-gateway] Config error: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[directory-gateway] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[directory-gateway] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[directory-gateway] PostgreSQL connected ✓")

	opts := []directory.Option{directory.WithLogger(logger)}

	// ── Redis (optional) ─────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		log.Println("[directory-gateway] Connecting to Redis…")
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[directory-gateway] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[directory-gateway] Redis connected ✓")

		ttl := time.Duration(cfg.LookupCacheTTLMinutes) * time.Minute
		opts = append(opts, directory.WithCache(directory.NewRedisCache(rdb, ttl)))
	} else {
		log.Println("[directory-gateway] REDIS_URL not set, lookup cache disabled")
	}

	svc := directory.NewService(directory.NewStore(pool), opts...)

	// ── Lookup refresh ───────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if rdb != nil {
		sched = scheduler.New(svc, cfg.LookupRefreshMinutes, logger)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[directory-gateway] Scheduler: %v", err)
		}
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	h := directory.NewHandler(svc, cfg.APIToken, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[directory-gateway] v%s listening on :%s", directory.Version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[directory-gateway] HTTP server error: %v", err)
		}
	}()

	// ── gRPC server (optional) ───────────────────────────────────────────────
	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
		if err != nil {
			log.Fatalf("[directory-gateway] gRPC listen: %v", err)
		}
		grpcSrv = grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryAuthInterceptor(cfg.APIToken)))
		grpcserver.Register(grpcSrv, grpcserver.NewServer(svc))

		go func() {
			log.Printf("[directory-gateway] gRPC listening on :%s", cfg.GRPCPort)
			if err := grpcSrv.Serve(lis); err != nil {
				log.Fatalf("[directory-gateway] gRPC server error: %v", err)
			}
		}()
	}

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[directory-gateway] Shutting down…")
	cancel()
	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[directory-gateway] Shutdown error: %v", err)
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	log.Println("[directory-gateway] Stopped.")
}
