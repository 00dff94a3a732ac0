package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/padmux/padmux/internal/binding"
	"github.com/padmux/padmux/internal/emit"
	"github.com/padmux/padmux/internal/engine"
	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/hub"
	"github.com/padmux/padmux/internal/profile"
	"github.com/padmux/padmux/internal/server"
	"github.com/padmux/padmux/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func defaultProfileDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "padmux", "profiles")
}

func loadConfig() *viper.Viper {
	pflag.String("addr", ":8642", "control server listen address")
	pflag.Int("tick-rate", engine.DefaultTickRate, "polling ticks per second")
	pflag.String("profile-dir", defaultProfileDir(), "profile directory")
	pflag.String("profile", profile.DefaultName, "profile to load at startup")
	pflag.Bool("tray", false, "show the system tray icon")
	pflag.Parse()

	v := viper.New()
	v.BindPFlags(pflag.CommandLine)
	v.SetConfigName("padmux")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "padmux"))
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatalf("Config error: %v", err)
		}
	} else {
		log.Printf("Config loaded from %s", v.ConfigFileUsed())
	}
	return v
}

func main() {
	cfg := loadConfig()

	store := profile.NewStore(cfg.GetString("profile-dir"))
	prof, err := store.Load(cfg.GetString("profile"))
	if err != nil {
		log.Fatalf("Profile error: %v", err)
	}

	emitter, err := emit.NewPlatform()
	if err != nil {
		log.Fatalf("Emitter error: %v", err)
	}

	eng := engine.New(
		gamepad.NewSDLSource(),
		emitter,
		binding.Defaults(),
		store,
		prof,
		cfg.GetInt("tick-rate"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	h := hub.NewHub()
	go h.Run()

	broadcaster := hub.NewBroadcaster(h, eng.Updates())
	go broadcaster.Run()

	srv := server.New(h, broadcaster, eng, cfg.GetString("addr"))
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	log.Printf("padmux started, profile %s, control server on %s",
		prof.Name, cfg.GetString("addr"))

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})
	if cfg.GetBool("tray") {
		go func() {
			t := tray.New(eng, func() {
				close(shutdownRequested)
			})
			t.Run(nil)
		}()
	} else {
		log.Println("Press Ctrl+C to exit")
	}

	// The engine loop locks its own OS thread for SDL.
	engineDone := make(chan error, 1)
	go func() {
		engineDone <- eng.Run(ctx)
	}()

	select {
	case <-sigCh:
		log.Println("Shutting down...")
		cancel()
	case <-shutdownRequested:
		log.Println("Shutdown requested from tray")
		cancel()
	case err := <-serverErrCh:
		log.Printf("HTTP server error: %v", err)
		cancel()
	case err := <-engineDone:
		if err != nil {
			log.Printf("Engine error: %v", err)
		}
		engineDone = nil
	}

	if engineDone != nil {
		<-engineDone
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("padmux stopped")
}
