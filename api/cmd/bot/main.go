package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"form-bot/api/internal/config"
	"form-bot/api/internal/docproc"
	"form-bot/api/internal/form"
	"form-bot/api/internal/httpserver"
	"form-bot/api/internal/telegram"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram auth failed")
	}
	bot.Debug = false
	logger.Info().Str("bot", bot.Self.UserName).Msg("authorized")

	proc := docproc.New(cfg.APIBaseURL, logger)
	store := form.NewStore()
	orch := form.New(proc, store, logger)

	router := &telegram.Router{
		Bot:  bot,
		Orch: orch,
		Proc: proc,
		Log:  logger,
	}

	mux := httpserver.NewMux()
	addr := "0.0.0.0:" + cfg.Port

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		runWebhook(addr, webhookURL, bot, router, mux, logger)
	} else {
		runPolling(addr, bot, router, mux, logger)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// ---------------- Modes -----------------

func runWebhook(addr, baseURL string, bot *tgbotapi.BotAPI, r *telegram.Router, mux http.Handler, logger zerolog.Logger) {
	// секретный путь вебхука
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad webhook url")
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		logger.Fatal().Err(err).Msg("set webhook failed")
	}

	root := http.NewServeMux()
	root.Handle("/", mux)
	root.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		var upd tgbotapi.Update
		if err := json.NewDecoder(req.Body).Decode(&upd); err != nil {
			logger.Warn().Err(err).Msg("bad webhook payload")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// Updates run in-line so one chat's passes stay ordered.
		r.HandleUpdate(req.Context(), upd)
		w.WriteHeader(http.StatusOK)
	})

	logger.Info().Str("addr", addr).Str("path", path).Msg("webhook listening")
	if err := http.ListenAndServe(addr, root); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
}

func runPolling(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, mux http.Handler, logger zerolog.Logger) {
	go func() {
		logger.Info().Str("addr", addr).Msg("ops server listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Устойчивый поллинг с backoff, без os.Exit на временных ошибках.
	ctx := context.Background()
	pollLoop(ctx, bot, logger, func(upd tgbotapi.Update) {
		r.HandleUpdate(ctx, upd)
	})
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 от Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func pollLoop(ctx context.Context, bot *tgbotapi.BotAPI, logger zerolog.Logger, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("polling stopped")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			logger.Warn().Err(err).Dur("retry_in", d).Msg("polling error")
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}

// ---------------- Helpers -----------------

func shortHash(s string) string {
	// лёгкий хэш для пути вебхука (не крипто, но стабильно для токена)
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
