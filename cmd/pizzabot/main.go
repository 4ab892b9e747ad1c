// pizzabot is the terminal client for Mamma Mia's order-taking assistant.
//
// Usage:
//
//	pizzabot [-llm azure|openai|none] [-menu menu.yaml] [-voice] [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/subba5076/Pizza-Delivery-agent/internal/assistant"
	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/conversation"
	"github.com/subba5076/Pizza-Delivery-agent/internal/display"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/engine"
	"github.com/subba5076/Pizza-Delivery-agent/internal/gpt"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
	"github.com/subba5076/Pizza-Delivery-agent/internal/pricing"
	"github.com/subba5076/Pizza-Delivery-agent/internal/speech"
	"github.com/subba5076/Pizza-Delivery-agent/internal/storage"
	"github.com/subba5076/Pizza-Delivery-agent/internal/summary"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".pizzabot-logs/pizzabot.log", "file to write logs to (use \"stderr\" to log to console)")
	menuPath := flag.String("menu", "", "menu catalog (YAML or JSON); empty uses the built-in menu")
	llm := flag.String("llm", gpt.BackendAzure, "generator backend: azure, openai or none")
	genTimeout := flag.Duration("gen-timeout", 30*time.Second, "timeout for one generator call")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	diskCache := flag.Bool("disk-cache", true, "persist TTS audio cache to disk")
	cacheDir := flag.String("cache-dir", ".pizzabot-cache", "directory for the TTS audio cache")
	voice := flag.Bool("voice", false, "enable push-to-talk voice input via local Whisper (ctrl+t)")
	whisperBin := flag.String("whisper-bin", envOr(speech.EnvWhisperBin, "whisper-cli"), "path to the whisper-cpp CLI binary")
	whisperModel := flag.String("whisper-model", envOr(speech.EnvWhisperModel, "bin/ggml-small.bin"), "path to the Whisper GGML model file")
	recordSecs := flag.Int("record-secs", 2, "seconds per voice recording chunk")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file by default so the UI stays clean.
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
	// Third-party libs (the whisper recorder) use the stdlib logger.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cat := catalog.Default()
	if *menuPath != "" {
		c, err := catalog.LoadFile(*menuPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cat = c
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen, err := gpt.FromEnv(*llm, log.Named("gpt"))
	if err != nil {
		log.Warn("generator disabled: %v", err)
	} else {
		log.Info("generator enabled (backend=%s)", *llm)
	}

	eng := engine.New(cat, gen, conversation.NewSignalParser(log), log.Named("engine"),
		engine.WithGeneratorTimeout(*genTimeout),
	)
	asst := assistant.New(eng, storage.NewMemoryStore(log), log.Named("assistant"))

	ui := display.NewUI()
	textNotifier := conversation.NewCLINotifier(log, "Mamma Mia", ui.Printf)

	var notifier domain.Notifier = textNotifier
	var tts *speech.Voice

	azureKey := os.Getenv(speech.EnvAzureSpeechKey)
	azureRegion := os.Getenv(speech.EnvAzureSpeechRegion)
	if azureKey != "" && azureRegion != "" && !*noSpeech {
		client := speech.NewAzureClient(azureKey, azureRegion, log.Named("tts"))
		player, err := speech.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
		} else {
			tts = speech.NewVoice(client, player, log.Named("voice"),
				speech.WithCache(speech.NewAudioCache(client.Voice(), *cacheDir, *diskCache, 256, log)),
			)
			tts.Start(ctx)
			tts.Prefetch(ctx, speech.CleanForSpeech(engine.LineWelcome), speech.CleanForSpeech(engine.LineSpecialRequests))
			notifier = speech.NewSpeakingNotifier(textNotifier, tts, log)
			log.Info("TTS enabled (voice=%s, region=%s)", client.Voice(), azureRegion)
		}
	}

	var ear *speech.Ear
	if *voice {
		if _, err := os.Stat(*whisperModel); err != nil {
			fmt.Fprintf(os.Stderr, "error: whisper model not found at %s\n", *whisperModel)
			os.Exit(1)
		}
		os.MkdirAll(".pizzabot-stt", 0o755)
		opts := []speech.EarOption{speech.WithRecordDuration(time.Duration(*recordSecs) * time.Second)}
		if tts != nil {
			opts = append(opts, speech.WithVoice(tts))
		}
		ear = speech.NewEar(*whisperBin, *whisperModel, log.Named("ear"), opts...)
		log.Info("voice input enabled (bin=%s, model=%s)", *whisperBin, *whisperModel)
	}

	app := &cliApp{
		asst:     asst,
		cat:      cat,
		cart:     conversation.NewCart(cat),
		notifier: notifier,
		tts:      tts,
		ear:      ear,
		log:      log,
		ui:       ui,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type /help for commands, /quit to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ── CLI app ──────────────────────────────────────────────────────

type cliApp struct {
	asst      *assistant.Assistant
	cat       *catalog.Catalog
	cart      *conversation.Cart
	notifier  domain.Notifier
	tts       *speech.Voice // nil when TTS is disabled
	ear       *speech.Ear   // nil when voice input is disabled
	log       *logger.Logger
	ui        *display.UI
	sessionID string
	state     *domain.OrderState
}

func (a *cliApp) run(ctx context.Context) {
	sess, welcome, err := a.asst.Start(ctx)
	if err != nil {
		a.ui.PrintUrgent(err.Error())
		return
	}
	a.sessionID = sess.ID
	a.show(ctx, welcome)
	a.ui.PrintHint("Pick items with /pick <item>, then /done when finished.")

	uiCh := a.ui.InputChan()
	talkCh := a.ui.TalkChan()

	for {
		select {
		case <-ctx.Done():
			return
		case <-talkCh:
			a.listen(ctx)
		case input, ok := <-uiCh:
			if !ok {
				return
			}
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			if strings.HasPrefix(input, "/") {
				if quit := a.command(ctx, input); quit {
					return
				}
				continue
			}
			a.chat(ctx, input)
		}
	}
}

// command handles slash commands. It returns true to quit.
func (a *cliApp) command(ctx context.Context, input string) bool {
	name, arg, _ := strings.Cut(input[1:], " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return true
	case "help", "h":
		a.showHelp()
	case "menu", "m":
		a.ui.PrintMenu(a.cat.MenuText())
	case "pick", "p":
		li, err := a.cart.Add(arg)
		if err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Couldn't find that on the menu: %q", arg))
			return false
		}
		a.ui.PrintHint(fmt.Sprintf("picked %s (%d in cart)", strings.TrimPrefix(summary.ItemLine(a.cat, li), "- "), a.cart.Len()))
		a.refreshStatus()
	case "drop":
		if !a.cart.Remove(arg) {
			a.ui.PrintUrgent("That isn't in the cart.")
		}
		a.refreshStatus()
	case "cart":
		a.showCart()
	case "done", "d":
		msg, err := a.cart.Checkout()
		if err != nil {
			a.ui.PrintUrgent("Your cart is empty. Use /pick <item> first.")
			return false
		}
		a.chat(ctx, msg)
	case "restart", "r":
		a.cart.Clear()
		res, err := a.asst.Restart(ctx, a.sessionID)
		if err != nil {
			a.ui.PrintUrgent(err.Error())
			return false
		}
		a.show(ctx, res)
	case "talk", "t":
		a.listen(ctx)
	default:
		a.ui.PrintUrgent("Unknown command. Type /help.")
	}
	return false
}

func (a *cliApp) chat(ctx context.Context, message string) {
	if a.tts != nil {
		a.tts.Interrupt()
	}
	res, err := a.asst.Chat(ctx, a.sessionID, message)
	if err != nil {
		a.log.Error("chat: %v", err)
		a.notifier.NotifyUrgent(ctx, engine.LineApology)
		return
	}
	a.show(ctx, res)
}

func (a *cliApp) listen(ctx context.Context) {
	if a.ear == nil {
		a.ui.PrintHint("Voice input is off. Start with -voice to enable it.")
		return
	}
	a.ui.SetStatus(a.status(true))
	text, err := a.ear.Listen(ctx)
	a.ui.SetStatus(a.status(false))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyTranscript) {
			a.notifier.Notify(ctx, speech.LineNoAudio())
			return
		}
		a.log.Error("listen: %v", err)
		return
	}
	a.ui.PrintVoice(text)
	a.chat(ctx, text)
}

func (a *cliApp) show(ctx context.Context, res *domain.TurnResult) {
	a.state = res.State
	if res.Failed {
		a.notifier.NotifyUrgent(ctx, res.Reply)
	} else {
		a.notifier.Notify(ctx, res.Reply)
	}
	if res.ShowMenu {
		a.ui.PrintMenu(a.cat.MenuText())
	}
	if res.Completed {
		a.cart.Clear()
	}
	a.refreshStatus()
}

func (a *cliApp) refreshStatus() {
	a.ui.SetStatus(a.status(false))
}

// status builds the bar from the confirmed order, or the cart while the
// customer is still choosing.
func (a *cliApp) status(listening bool) display.Status {
	st := display.Status{Stage: domain.StageStart, Listening: listening}
	items := a.cart.Items()
	if a.state != nil {
		st.Stage = a.state.Stage
		if len(a.state.Order.Items) > 0 {
			items = a.state.Order.Items
		}
	}
	for _, li := range items {
		st.Items = append(st.Items, strings.TrimPrefix(summary.ItemLine(a.cat, li), "- "))
	}
	total, err := pricing.Price(a.cat, items)
	if err != nil {
		total = -1
	}
	st.Total = total
	return st
}

func (a *cliApp) showCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		a.ui.PrintHint("Cart is empty.")
		return
	}
	for _, li := range items {
		a.ui.PrintHint(summary.ItemLine(a.cat, li))
	}
}

func (a *cliApp) showHelp() {
	for _, l := range []string{
		"/menu             show the menu",
		"/pick <item>      add an item, e.g. /pick 2 margherita gluten-free",
		"/drop <item>      remove an item from the cart",
		"/cart             show the cart",
		"/done             finish choosing and start the order",
		"/restart          start over",
		"/talk or ctrl+t   speak instead of typing (-voice)",
		"/quit             exit",
		"Anything else is sent to the assistant.",
	} {
		a.ui.PrintHint(l)
	}
}
