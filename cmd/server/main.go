package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"topovista/internal/adapter"
	"topovista/internal/asset"
	"topovista/internal/config"
	"topovista/internal/domain"
	"topovista/internal/fortigate"
	"topovista/internal/handler"
	"topovista/internal/history"
	"topovista/internal/hub"
	"topovista/internal/loader"
	"topovista/internal/service"
	"topovista/internal/watcher"
)

func main() {
	// Command line flags
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	topologyPath := flag.String("topology", "", "topology document path (overrides config)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting topovista server...")

	// .env is optional; it carries appliance credentials in dev setups
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded from %s", cfgPath)
	} else {
		log.Println("No config file found, using defaults")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *topologyPath != "" {
		cfg.Topology.Path = *topologyPath
	}

	// Asset manifest: a missing manifest means every device type uses
	// its procedural fallback, which is a valid scene.
	var manifest asset.Manifest
	if cfg.Assets.ManifestPath != "" {
		manifest, err = asset.LoadManifest(cfg.Assets.ManifestPath)
		if err != nil {
			log.Printf("Asset manifest unavailable: %v (procedural fallback for all types)", err)
			manifest = asset.Manifest{Assets: map[string]string{}}
		}
	} else {
		manifest = asset.Manifest{Assets: map[string]string{}}
	}
	resolver := asset.NewResolver(manifest, nil)

	// Event bus and SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	go sseHub.Run()

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	// Scene session: clicks land on the log in addition to the event
	// stream the hub forwards to the frontend.
	session := service.NewSceneSession(resolver, detailLogger{}, eventBus)
	session.SetAnimate(cfg.Animation.Enabled)

	// Metrics history store
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	defer store.Close()
	log.Printf("History store opened: %s", cfg.History.Path)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Initial topology: FortiGate when configured, else the document,
	// else the built-in sample. Every path populates the scene.
	reloader := &documentReloader{cfg: cfg, session: session, store: store}
	if _, err := reloader.Reload(rootCtx); err != nil {
		log.Printf("Initial load degraded: %v", err)
	}

	// HTTP surface
	sceneHandler := handler.NewSceneHandler(session)
	sceneHandler.SetHistoryStore(store)
	sceneHandler.SetDocumentReloader(reloader)
	if cfg.Discovery.Enabled {
		discoverer := adapter.NewNmapDiscoverer(
			cfg.Discovery.Targets,
			adapter.WithPortRange(cfg.Discovery.PortRange),
		)
		sceneHandler.SetDiscoveryRunner(&discoveryService{
			discoverer: discoverer,
			session:    session,
		})
	}

	mux := http.NewServeMux()
	sceneHandler.Routes(mux)
	mux.Handle("GET /events", sseHub)

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Animation tick: the host render loop equivalent for headless
	// operation, driving idle drift and link refresh.
	if cfg.Animation.Enabled {
		go runTicker(rootCtx, session)
	}

	// Topology document hot reload
	if cfg.Topology.Watch && cfg.Topology.Path != "" {
		w := watcher.New(cfg.Topology.Path, func() {
			if _, err := reloader.Reload(rootCtx); err != nil {
				log.Printf("Reload after change failed: %v", err)
			}
		})
		go func() {
			if err := w.Watch(rootCtx); err != nil && rootCtx.Err() == nil {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runTicker drives the idle animation at ~30 fps.
func runTicker(ctx context.Context, session *service.SceneSession) {
	const dt = time.Second / 30
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			session.Tick(float32(dt.Seconds()))
		case <-ctx.Done():
			return
		}
	}
}

// detailLogger is the default detail sink: click payloads go to the
// log; the SSE stream carries them to any connected frontend.
type detailLogger struct{}

func (detailLogger) ShowDetail(d domain.Detail) {
	log.Printf("Device detail: %v", d.Fields())
}

// documentReloader loads the configured topology source into the
// session and records a metrics snapshot per load.
type documentReloader struct {
	mu      sync.Mutex
	cfg     *config.Config
	session *service.SceneSession
	store   *history.Store
}

// Reload fetches the current topology and loads it. FortiGate is
// preferred when enabled; any failure falls through to the document
// path, and from there to the built-in sample.
func (r *documentReloader) Reload(ctx context.Context) (service.LoadSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, srcErr := r.fetchDocument(ctx)
	summary := r.session.LoadDocument(ctx, doc)
	log.Printf("Topology loaded: %d devices committed, %d skipped, %d connections (inferred=%v)",
		summary.DevicesCommitted, summary.DevicesSkipped, summary.Connections, summary.Inferred)

	metrics := r.session.Metrics()
	if _, err := r.store.Record(ctx, history.Snapshot{
		TotalDevices:   metrics.TotalDevices,
		VisibleDevices: metrics.VisibleDevices,
		Connections:    metrics.Connections,
		ByCategory:     metrics.ByCategory,
	}); err != nil {
		log.Printf("Failed to record history snapshot: %v", err)
	}

	return summary, srcErr
}

func (r *documentReloader) fetchDocument(ctx context.Context) (*domain.Document, error) {
	if r.cfg.FortiGate.Enabled && r.cfg.FortiGate.Host != "" {
		opts := []fortigate.Option{fortigate.WithPort(r.cfg.FortiGate.Port)}
		if r.cfg.FortiGate.InsecureTLS {
			opts = append(opts, fortigate.WithInsecureTLS())
		}
		client := fortigate.NewClient(r.cfg.FortiGate.Host, r.cfg.FortiGate.Token, opts...)
		doc, err := client.BuildDocument(ctx)
		if err == nil {
			return doc, nil
		}
		log.Printf("FortiGate topology unavailable: %v, trying document", err)
		return loader.LoadOrSample(r.cfg.Topology.Path),
			fmt.Errorf("fortigate unavailable, used fallback: %w", err)
	}
	return loader.LoadOrSample(r.cfg.Topology.Path), nil
}

// discoveryService runs the nmap discoverer and merges the results
// into the live session.
type discoveryService struct {
	discoverer adapter.Discoverer
	session    *service.SceneSession
}

// RunDiscovery implements handler.DiscoveryRunner.
func (s *discoveryService) RunDiscovery(ctx context.Context) (int, error) {
	descs, err := s.discoverer.Discover(ctx)
	if err != nil {
		return 0, err
	}
	if len(descs) == 0 {
		return 0, nil
	}
	return s.session.MergeDevices(ctx, descs), nil
}
