package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/script2edl/internal/analyzer"
	"github.com/ivlev/script2edl/internal/api"
	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/engine"
	"github.com/ivlev/script2edl/internal/llm"
)

var version = "dev"

func main() {
	configPtr := flag.String("config", "", "YAML config file")
	addrPtr := flag.String("addr", "", "Listen address (default :8080)")
	providerPtr := flag.String("provider", "", "Decision source: gemini, openai")
	debugPtr := flag.Bool("debug", false, "Gin debug mode")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}
	cfg.BuildVersion = version
	if *addrPtr != "" {
		cfg.ServerAddr = *addrPtr
	}
	if *providerPtr != "" {
		cfg.Provider = *providerPtr
	}

	if *debugPtr {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier, err := analyzer.NewClassifier(cfg.Classifier)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	d := director.NewDirector()
	d.Classifier = classifier
	if cfg.WordsPerMinute > 0 {
		d.WordsPerMinute = cfg.WordsPerMinute
	}

	decider, err := llm.New(ctx, cfg)
	if err != nil {
		log.Printf("[!] Decision source disabled: %v", err)
		decider = nil
	}
	if decider != nil {
		defer decider.Close()
	}

	router := api.NewRouter(api.NewHandlers(engine.NewProject(cfg, d, decider, nil)))
	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[!] Shutdown error: %v", err)
		}
	}()

	fmt.Printf("[*] %s %s listening on %s\n", config.AppName, version, cfg.ServerAddr)
	if decider != nil {
		fmt.Printf("[*] Decision source: %s\n", decider.Name())
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[-] Server error: %v", err)
	}
	fmt.Println("[*] Server stopped")
}
