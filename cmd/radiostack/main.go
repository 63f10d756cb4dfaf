// main.go
// Copyright(c) 2022-2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// This file contains the implementation of the main() function, which
// initializes the radio stack and then runs its event loop until the
// process receives a termination signal.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/atcvoice/radiostack/codec"
	"github.com/atcvoice/radiostack/config"
	"github.com/atcvoice/radiostack/log"
	"github.com/atcvoice/radiostack/metrics"
	"github.com/atcvoice/radiostack/platform"
	"github.com/atcvoice/radiostack/radio"
	"github.com/atcvoice/radiostack/transport/httpapi"
	"github.com/atcvoice/radiostack/transport/udp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

var (
	// Command-line options are only used for developer / deployment features.
	logLevel      = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir        = flag.String("logdir", "", "log file directory")
	headless      = flag.Bool("headless", false, "run without opening local audio devices (transport/mixer only)")
	metricsAddr   = flag.String("metrics-addr", ":9090", "address to serve Prometheus metrics on")
	udpAddr       = flag.String("udp-addr", "", "address of the facility's UDP voice relay (overrides config.json)")
	sessionKeyHex = flag.String("session-key", "", "hex-encoded 32-byte UDP session key (overrides config.json derivation)")
)

func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Caught signal, cleaning up...")
		cancel()
	}()
}

func main() {
	flag.Parse()

	lg := log.New(*headless, *logLevel, *logDir)

	cfg := config.LoadOrMakeDefault(lg)
	if *udpAddr != "" {
		cfg.UDPAddr = *udpAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandler(cancel)

	registry := prometheus.NewRegistry()
	mx := metrics.New(registry)
	log.SetErrorHook(func(string) { mx.ErrorsLogged.Inc() })

	// g coordinates the background execution contexts (the memory-
	// reclaim ticker, the metrics server, and transceiver posting) so a
	// failure in any one cancels gctx and main can wait for a clean
	// teardown of the rest instead of leaking goroutines past shutdown.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t := time.NewTicker(15 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-t.C:
				debug.FreeOSMemory()
			}
		}
	})

	g.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			<-gctx.Done()
			srv.Close()
		}()
		lg.Infof("Serving metrics on %s", *metricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	codecFactory := codec.NewFactory(lg)

	var udpChannel radio.UDPChannel
	if cfg.UDPAddr != "" {
		key := sessionKey(cfg, lg)
		ch, err := udp.Dial(cfg.UDPAddr, key, lg)
		if err != nil {
			lg.Errorf("Unable to connect to UDP voice relay: %v", err)
		} else {
			defer ch.Close()
			udpChannel = ch
		}
	}

	stack, err := radio.New(radio.Config{
		Logger:       lg,
		Codec:        codecFactory,
		UDP:          udpChannel,
		EffectCache:  32,
		Callsign:     cfg.Callsign,
		AtisCallsign: cfg.AtisCallsign,
		ClientPos:    radio.ClientPosition{LatDeg: cfg.ClientLatDeg, LonDeg: cfg.ClientLonDeg},
		Metrics:      mx,
	})
	if err != nil {
		lg.Errorf("Unable to initialize radio stack: %v", err)
		os.Exit(1)
	}
	defer stack.Close()

	for freq, bypass := range cfg.BypassEffectsOn {
		stack.SetBypassEffects(freq, bypass)
	}
	stack.SetWantRT(cfg.WantRT)

	if cfg.HTTPBaseURL != "" {
		session := httpapi.New(httpapi.Config{
			BaseURL:      cfg.HTTPBaseURL,
			TokenURL:     cfg.HTTPTokenURL,
			ClientID:     cfg.HTTPClientID,
			ClientSecret: cfg.HTTPClientSecret,
		})
		g.Go(func() error {
			postTransceiversPeriodically(gctx, stack, session, lg)
			return nil
		})
	}

	var headsetDev, speakerDev *platform.PlaybackDevice
	var micDev *platform.CaptureDevice
	if !*headless {
		headsetDev = platform.NewPlaybackDevice(lg)
		headsetDev.SetSource(radio.StackSampleSource{Stack: stack, Role: radio.HeadsetRole})
		if err := headsetDev.Open(cfg.HeadsetDevice); err != nil {
			lg.Errorf("Unable to open headset device: %v", err)
		} else {
			defer headsetDev.Close()
		}

		speakerDev = platform.NewPlaybackDevice(lg)
		speakerDev.SetSource(radio.StackSampleSource{Stack: stack, Role: radio.SpeakerRole})
		if err := speakerDev.Open(cfg.SpeakerDevice); err != nil {
			lg.Errorf("Unable to open speaker device: %v", err)
		} else {
			defer speakerDev.Close()
		}

		micDev = platform.NewCaptureDevice(lg)
		micDev.SetSink(radio.StackSampleSink{Stack: stack})
		if err := micDev.Open(cfg.MicDevice); err != nil {
			lg.Errorf("Unable to open microphone device: %v", err)
		} else {
			defer micDev.Close()
		}
	}

	lg.Info("Starting maintenance loop")
	if err := stack.RunMaintenanceLoop(ctx); err != nil && ctx.Err() == nil {
		lg.Errorf("maintenance loop exited: %v", err)
	}

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Errorf("background task exited with error: %v", err)
	}

	cfg.SaveIfChanged(lg)
	lg.Info("Shutdown complete")
}

func postTransceiversPeriodically(ctx context.Context, stack *radio.RadioStack, session *httpapi.Session, lg *log.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := session.PostTransceivers(ctx, stack.AssembleTransceiverDTO()); err != nil {
				lg.Debug("failed to post transceivers", "error", err)
			}
		}
	}
}

// sessionKey decodes the UDP secretbox key from the -session-key flag's
// hex string. With the flag empty it derives an insecure placeholder
// from the configured callsign; a flag value that is not 32 hex-encoded
// bytes is hashed with SHA-256 instead. Real key exchange with the
// facility is out of scope (§6); this is the placeholder that a host
// application wires up once it has that mechanism.
func sessionKey(cfg *config.Config, lg *log.Logger) [32]byte {
	var key [32]byte
	src := *sessionKeyHex
	if src == "" {
		lg.Warn("no UDP session key configured; deriving an insecure placeholder from the callsign")
		sum := sha256.Sum256([]byte(cfg.Callsign))
		return sum
	}
	if b, err := hex.DecodeString(src); err == nil && len(b) == len(key) {
		copy(key[:], b)
		return key
	}
	lg.Warn("UDP session key is not 32 hex-encoded bytes; hashing it instead")
	sum := sha256.Sum256([]byte(src))
	copy(key[:], sum[:])
	return key
}
