package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsmon/internal/api"
	"github.com/deusflow/newsmon/internal/app"
	"github.com/deusflow/newsmon/internal/config"
	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/metrics"
	"github.com/deusflow/newsmon/internal/news"
	"github.com/deusflow/newsmon/internal/scheduler"
)

// a watch run may fetch a few hundred pages
const watchRunTimeout = 30 * time.Minute

func main() {
	keywords := flag.String("keywords", "", "comma separated keywords for a one-shot run")
	days := flag.Int("days", 1, "search window in days (1-100)")
	chat := flag.String("chat", "", "Telegram chat id for a one-shot run (default TELEGRAM_CHAT_ID)")
	serve := flag.Bool("serve", false, "serve the search form and JSON API")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Debug)

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Error("load rules failed", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}

	svc := app.New(cfg, rules, metrics.Global)
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *keywords != "" {
		os.Exit(runOnce(ctx, svc, *keywords, *days, *chat))
	}

	if !*serve && !cfg.WatchEnabled() {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -keywords, -serve, or set CRON_SPEC and WATCH_KEYWORDS")
		flag.Usage()
		os.Exit(2)
	}

	if cfg.WatchEnabled() {
		s, err := scheduler.New(cfg.CronSpec, svc, news.SearchRequest{
			Keywords:  cfg.WatchKeywords,
			Days:      cfg.WatchDays,
			Recipient: cfg.TelegramChatID,
		}, watchRunTimeout)
		if err != nil {
			logger.Error("init scheduler failed", "spec", cfg.CronSpec, "error", err)
			os.Exit(1)
		}
		s.Start()
		defer s.Stop()
	}

	if *serve {
		if err := serveHTTP(ctx, cfg.HTTPAddr, svc, cfg.Debug); err != nil {
			logger.Error("server exit", "error", err)
			os.Exit(1)
		}
		return
	}

	<-ctx.Done()
	logger.Info("shutting down")
}

func runOnce(ctx context.Context, svc *app.Service, keywords string, days int, chat string) int {
	sum, err := svc.Run(ctx, news.SearchRequest{
		Keywords:  config.SplitKeywords(keywords),
		Days:      days,
		Recipient: chat,
	})
	if err != nil {
		logger.Error("report failed", "error", err)
		if app.IsRequestError(err) {
			return 2
		}
		return 1
	}

	if sum.Count == 0 {
		fmt.Println("⚠️ 검색된 뉴스 X, 텔레그램 전송 X")
	} else {
		fmt.Printf("✅ 총 %d건 뉴스, 텔레그램 전송 완료!\n", sum.Count)
	}
	fmt.Printf("🎯 검색 단어 : %s\n🗓️ 검색 시간 : %s\n🗓️ 검색 기간 : %d일\n📝 해당 기사 : 총 %d건\n",
		sum.Keywords, sum.Time, sum.Days, sum.Count)
	return 0
}

func serveHTTP(ctx context.Context, addr string, svc *app.Service, debug bool) error {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewServer(svc, metrics.Global))

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
