// pizzabotd serves the order-taking assistant over HTTP and WebSocket.
//
// Usage:
//
//	pizzabotd [-addr :8080] [-llm azure|openai|none] [-session-ttl 30m] [-verbose]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/subba5076/Pizza-Delivery-agent/internal/assistant"
	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/conversation"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/engine"
	"github.com/subba5076/Pizza-Delivery-agent/internal/gpt"
	"github.com/subba5076/Pizza-Delivery-agent/internal/httpapi"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
	"github.com/subba5076/Pizza-Delivery-agent/internal/metrics"
	"github.com/subba5076/Pizza-Delivery-agent/internal/speech"
	"github.com/subba5076/Pizza-Delivery-agent/internal/storage"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8080", "listen address")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "stderr", "file to write logs to")
	menuPath := flag.String("menu", "", "menu catalog (YAML or JSON); empty uses the built-in menu")
	llm := flag.String("llm", gpt.BackendAzure, "generator backend: azure, openai or none")
	genTimeout := flag.Duration("gen-timeout", 30*time.Second, "timeout for one generator call")
	sessionTTL := flag.Duration("session-ttl", 30*time.Minute, "idle time after which a session is dropped")
	whisperBin := flag.String("whisper-bin", os.Getenv(speech.EnvWhisperBin), "whisper-cpp CLI for /api/listen (empty disables transcription)")
	whisperModel := flag.String("whisper-model", envOr(speech.EnvWhisperModel, "bin/ggml-small.bin"), "Whisper GGML model file")
	origins := flag.String("cors-origins", "http://localhost:3000,http://localhost:5173", "comma-separated origins allowed to call the API (empty disables CORS)")
	ffmpeg := flag.String("ffmpeg", "", "ffmpeg binary used to convert uploads to 16 kHz WAV")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		if dir := filepath.Dir(*logFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)
	log := logger.New(logLevel, logOut)

	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	cat := catalog.Default()
	if *menuPath != "" {
		c, err := catalog.LoadFile(*menuPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cat = c
	}

	rec := metrics.New(true)

	gen, err := gpt.FromEnv(*llm, log.Named("gpt"))
	if err != nil {
		log.Warn("generator disabled: %v", err)
	}

	eng := engine.New(cat, gen, conversation.NewSignalParser(log), log.Named("engine"),
		engine.WithGeneratorTimeout(*genTimeout),
		engine.WithMetrics(rec),
	)

	var stt domain.Transcriber = speech.NewNoOp(log)
	if *whisperBin != "" {
		var opts []speech.WhisperOption
		if *ffmpeg != "" {
			opts = append(opts, speech.WithFFmpeg(*ffmpeg))
		}
		stt = speech.NewWhisperCLI(*whisperBin, *whisperModel, log.Named("whisper"), opts...)
		log.Info("transcription enabled (bin=%s, model=%s)", *whisperBin, *whisperModel)
	}

	store := storage.NewMemoryStore(log.Named("store"))
	asst := assistant.New(eng, store, log.Named("assistant"),
		assistant.WithTranscriber(stt),
		assistant.WithMetrics(rec),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := storage.NewSweeper(store, *sessionTTL, log.Named("sweeper"),
		storage.WithOnSweep(func(evicted []string) { asst.Evicted(ctx, evicted...) }),
	)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	httpOpts := []httpapi.Option{httpapi.WithMetrics(rec)}
	if *origins != "" {
		httpOpts = append(httpOpts, httpapi.WithCORS(strings.Split(*origins, ",")...))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.New(asst, log.Named("http"), httpOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
