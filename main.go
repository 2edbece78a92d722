package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fruit-memory/assets"
	"fruit-memory/autoplay"
	"fruit-memory/config"
	"fruit-memory/loghandler"
	"fruit-memory/ws"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.json", "optional JSON config file")
	simulate := flag.Int("simulate", 0, "play N games with the autoplay bot and exit")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for -simulate")
	flag.Parse()

	envErr := godotenv.Load()

	cfg := config.LoadFile(*configPath)
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, cfg.SlogLevel())))
	if envErr != nil {
		slog.Debug("no .env file found; using environment variables", "tag", "config")
	}

	slog.Info("configuration", "tag", "config",
		"symbols", len(cfg.Symbols), "pairMultiplier", cfg.PairMultiplier, "cardsPerRow", cfg.CardsPerRow,
		"resolutionDelayMS", cfg.ResolutionDelayMS, "frameRateHz", cfg.FrameRateHz, "wsPort", cfg.WSPort)

	if *simulate > 0 {
		if err := runSimulation(cfg, *simulate, *seed); err != nil {
			slog.Error("simulation failed", "tag", "autoplay", "err", err)
			os.Exit(1)
		}
		return
	}

	files := cfg.Assets
	if len(files) == 0 {
		files = assets.DefaultFiles(cfg.Symbols)
	}
	catalog := assets.NewCatalog(cfg.AssetBaseURL, files)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(cfg, catalog)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.WSPort), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("memory game server listening", "tag", "main", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}

func runSimulation(cfg *config.Config, n int, seed int64) error {
	if len(cfg.AutoplayProfiles) == 0 {
		return errors.New("no autoplay profiles configured")
	}
	for _, params := range cfg.AutoplayProfiles {
		results, err := autoplay.Simulate(cfg, params, n, seed)
		if err != nil {
			return err
		}
		total, best, worst := 0, 0, 0
		for i, r := range results {
			total += r.Moves
			if i == 0 || r.Moves < best {
				best = r.Moves
			}
			if r.Moves > worst {
				worst = r.Moves
			}
		}
		slog.Info("simulation finished", "tag", "autoplay", "player", params.Name, "games", len(results),
			"meanMoves", fmt.Sprintf("%.1f", float64(total)/float64(len(results))), "best", best, "worst", worst)
	}
	return nil
}
