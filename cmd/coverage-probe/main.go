// Command coverage-probe evaluates one point in time against a demo
// coverage catalogue, logging the load decisions it makes along the way and
// optionally serving a debug admin endpoint over the event log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage"
	"github.com/oceanridge/coverage-engine/internal/coverage/model"
	"github.com/oceanridge/coverage-engine/internal/coverageconfig"
	"github.com/oceanridge/coverage-engine/internal/democatalog"
	"github.com/oceanridge/coverage-engine/internal/eventlog"
)

var (
	catalogueDir = flag.String("catalogue", "", "directory of *.json descriptor files to load (required)")
	configPath   = flag.String("config", "", "path to a JSON engine config (optional, defaults used if absent)")
	lon          = flag.Float64("lon", 0, "evaluation point longitude/x")
	lat          = flag.Float64("lat", 0, "evaluation point latitude/y")
	atTime       = flag.String("at", "", "evaluation instant, RFC3339 (default: now)")
	debugListen  = flag.String("debug-listen", "", "address to serve debug admin routes on, overrides config")
)

func loadConfig() (*coverageconfig.Config, error) {
	if *configPath == "" {
		return coverageconfig.Default(), nil
	}
	return coverageconfig.Load(*configPath)
}

func main() {
	flag.Parse()

	if *catalogueDir == "" {
		log.Fatal("-catalogue is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	instant := time.Now()
	if *atTime != "" {
		instant, err = time.Parse(time.RFC3339, *atTime)
		if err != nil {
			log.Fatalf("Invalid -at value: %v", err)
		}
	}

	log.Printf("Opening event log at %s", cfg.GetEventLogPath())
	events, err := eventlog.Open(cfg.GetEventLogPath())
	if err != nil {
		log.Fatalf("Failed to open event log: %v", err)
	}
	defer events.Close()

	log.Printf("Loading demo catalogue from %s", *catalogueDir)
	catalogue := democatalog.Open(*catalogueDir)
	decoder := democatalog.NewDecoder()

	engine, err := coverage.New(catalogue, decoder, coverage.Options{
		MaxTimeGap:           cfg.GetMaxTimeGap(),
		InterpolationAllowed: cfg.GetInterpolationAllowed(),
		Recorder:             events,
	})
	if err != nil {
		log.Fatalf("Failed to construct engine: %v", err)
	}
	log.Printf("Engine ready: %d frames, bands=%v", engine.FrameCount(), engine.SampleBands())

	point := model.Point2D{X: *lon, Y: *lat}
	values, err := engine.EvaluateF64(point, instant, nil)
	if err != nil {
		log.Fatalf("Evaluate failed: %v", err)
	}
	for i, band := range engine.SampleBands() {
		fmt.Printf("%s = %g %s\n", band.Name, values[i], band.Units)
	}

	listenAddr := cfg.GetDebugListenAddr()
	if *debugListen != "" {
		listenAddr = *debugListen
	}
	if listenAddr == "" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	if err := events.AttachAdminRoutes(mux); err != nil {
		log.Fatalf("Failed to attach admin routes: %v", err)
	}
	server := &http.Server{Addr: listenAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		log.Print("Shutting down debug server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Serving debug admin routes on %s", listenAddr)
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", listenAddr, err)
	}
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Debug server error: %v", err)
	}
}
