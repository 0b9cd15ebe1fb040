package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bendahl/uinput"
)

var version = "0.1.0"

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "scanpair")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scanpair")
}

func run() error {
	dir := configDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	keyboards, err := FindKeyboards(cfg.Devices.Include)
	if err != nil {
		return fmt.Errorf("find keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no scanner devices found\nMake sure you are in the 'input' group:\n  sudo usermod -aG input $USER\nThen log out and back in")
	}
	defer closeKeyboards(keyboards)

	if cfg.Devices.Grab {
		for _, kb := range keyboards {
			if err := kb.Grab(); err != nil {
				return fmt.Errorf("grab %s: %w", kb.Path, err)
			}
		}
	}

	tracker := &KeyStateTracker{}
	layout, err := NewTableLayout(cfg.Layout, tracker)
	if err != nil {
		return err
	}
	hub := NewHub(tracker)

	console := NewConsoleSink(os.Stdout, cfg.Output)
	sinks := FanOut{console}
	if cfg.Forward.Mode != ForwardOff {
		vkbd, err := uinput.CreateKeyboard("/dev/uinput", []byte(cfg.Forward.DeviceName))
		if err != nil {
			return fmt.Errorf("create virtual keyboard: %w", err)
		}
		defer vkbd.Close()
		sinks = append(sinks, NewForwardSink(vkbd, cfg.Layout, cfg.Forward.Mode, log))
	}

	session := NewSession(cfg.MaxScanLength)
	dispatcher := NewDispatcher(session, NewRecordDecoder(hub), NewTranslator(layout), sinks, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reloads, err := watchConfig(ctx, dir, log)
	if err != nil {
		log.Warn("config hot reload disabled", "err", err)
	}

	fmt.Printf("scanpair: monitoring %d device(s)\n", len(keyboards))
	for _, kb := range keyboards {
		fmt.Printf("  %s (%s)\n", kb.Name, kb.Path)
	}
	log.Info("session started", "session", session.ID, "devices", len(keyboards))

	ch := startReaders(keyboards)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nscanpair: shutting down")
			stopReaders(keyboards, ch)
			return nil
		case next, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			applyReload(console, cfg, next, log)
			cfg = next
		case ev := <-ch:
			in, ok := hub.Post(ev)
			if !ok {
				continue
			}
			dispatcher.HandleInput(in)
			hub.Release(in)
		}
	}
}

func listDevices() error {
	keyboards, err := FindKeyboards(nil)
	if err != nil {
		return err
	}
	defer closeKeyboards(keyboards)

	if len(keyboards) == 0 {
		fmt.Println("no scanner-capable devices found")
		return nil
	}
	for _, kb := range keyboards {
		fmt.Printf("%s  %s  %s\n", kb.ID(), kb.Path, kb.Name)
	}
	return nil
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			dir := configDir()
			fmt.Printf("scanpair: initializing config in %s\n", dir)
			if err := initConfig(dir); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("scanpair: config initialized")
			return
		case "devices":
			if err := listDevices(); err != nil {
				fmt.Fprintf(os.Stderr, "scanpair: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Printf("scanpair %s\n", version)
			return
		default:
			fmt.Fprintf(os.Stderr, "usage: scanpair [init|devices|version]\n")
			os.Exit(1)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scanpair: %v\n", err)
		os.Exit(1)
	}
}
