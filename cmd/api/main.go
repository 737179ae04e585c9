package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocksim/internal/auth"
	"stocksim/internal/config"
	"stocksim/internal/httpserver"
	"stocksim/internal/marketdata"
	"stocksim/internal/store"
	"stocksim/internal/trading"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	startingBalance, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil {
		log.Fatal("invalid STARTING_BALANCE")
	}
	ctx := context.Background()

	var accounts store.AccountStore
	var history trading.HistoryAppender
	if cfg.DBDSN != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DBDSN, startingBalance)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		accounts = pg
		history = pg
	} else {
		sq, err := store.NewSQLiteStore(cfg.SQLitePath, startingBalance)
		if err != nil {
			log.Fatal(err)
		}
		defer sq.Close()
		accounts = sq
		history = sq
	}
	snapshot := store.NewSnapshotStore(cfg.SnapshotPath)

	acct, err := accounts.LoadAccount(ctx, cfg.APIUser)
	if err != nil {
		log.Fatal(err)
	}
	if snap, snapErr := snapshot.Load(); snapErr == nil {
		acct = store.Reconcile(acct, snap)
	} else if !os.IsNotExist(snapErr) {
		log.Printf("snapshot load failed: %v", snapErr)
	}
	log.Printf("account %s loaded: balance %s, %d transactions", acct.Username, acct.Balance, len(acct.Transactions))

	seed := time.Now().UnixNano()
	if cfg.MarketSeeded {
		seed = cfg.MarketSeed
	}
	rng := rand.New(rand.NewSource(seed))
	market := marketdata.NewEngine(marketdata.DefaultListings(), rng, time.Now().UTC())
	bus := marketdata.NewBus()
	svc := trading.NewService(acct, market, history, bus)

	saver := store.Checkpointer{Accounts: accounts, Snapshot: snapshot}
	authSvc := auth.NewService(cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.APIUser, []byte(cfg.APIPasswordHash))
	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:    auth.NewHandler(authSvc),
		MarketHandler:  marketdata.NewHandler(svc),
		TradingHandler: trading.NewHandler(svc, saver),
		AuthService:    authSvc,
		WSHandler:      httpserver.NewWSHandler(bus, cfg.WebSocketOrigin),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// Market scheduler: one tick per interval until shutdown.
	tickCtx, stopTicks := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				svc.Tick(tickCtx)
			case <-tickCtx.Done():
				return
			}
		}
	}()

	log.Printf("server listening on %s", cfg.HTTPAddr)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		stopTicks()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := saver.SaveAccount(shutdownCtx, svc.Snapshot()); err != nil {
			log.Printf("final checkpoint failed: %v", err)
		}
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
