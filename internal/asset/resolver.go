package asset

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"topovista/internal/scene"
	"topovista/internal/vmath"
)

// Result is the outcome of resolving a type key. Either Template is
// set (loaded) or Reason explains why the key is unavailable.
// Unavailable is an expected outcome driving procedural fallback, not
// an error state.
type Result struct {
	Template *scene.Mesh
	Reason   string
}

// Loaded reports whether the result carries a usable template.
func (r Result) Loaded() bool {
	return r.Template != nil
}

// Unavailable constructs a fallback result.
func Unavailable(reason string) Result {
	return Result{Reason: reason}
}

// LoadFunc loads the template for one key from its manifest path.
type LoadFunc func(ctx context.Context, key, path string) (*scene.Mesh, error)

// Resolver memoizes template resolution per type key. Each key is
// loaded at most once per process lifetime; failures are cached the
// same as successes so fallback is never retried per device. The
// cache is append-only after first resolution, so concurrent reads of
// settled keys are cheap.
type Resolver struct {
	manifest Manifest
	load     LoadFunc

	mu       sync.Mutex
	cache    map[string]Result
	inflight map[string]chan struct{}
}

// NewResolver creates a resolver over a manifest. A nil load function
// uses FileLoader.
func NewResolver(manifest Manifest, load LoadFunc) *Resolver {
	if load == nil {
		load = FileLoader
	}
	return &Resolver{
		manifest: manifest,
		load:     load,
		cache:    make(map[string]Result),
		inflight: make(map[string]chan struct{}),
	}
}

// Resolve returns the memoized template for key, loading it on first
// use. Concurrent calls for the same key share one load; different
// keys load independently.
func (r *Resolver) Resolve(ctx context.Context, key string) Result {
	for {
		r.mu.Lock()
		if res, ok := r.cache[key]; ok {
			r.mu.Unlock()
			return res
		}
		if wait, ok := r.inflight[key]; ok {
			r.mu.Unlock()
			select {
			case <-wait:
				// Loop to read the now-settled cache entry.
				continue
			case <-ctx.Done():
				return Unavailable(fmt.Sprintf("resolve %s: %v", key, ctx.Err()))
			}
		}

		done := make(chan struct{})
		r.inflight[key] = done
		r.mu.Unlock()

		res := r.loadKey(ctx, key)

		r.mu.Lock()
		r.cache[key] = res
		delete(r.inflight, key)
		close(done)
		r.mu.Unlock()
		return res
	}
}

func (r *Resolver) loadKey(ctx context.Context, key string) Result {
	path, ok := r.manifest.Path(key)
	if !ok {
		log.Printf("asset: no manifest entry for %q, using procedural fallback", key)
		return Unavailable("not in manifest")
	}

	template, err := r.load(ctx, key, path)
	if err != nil {
		log.Printf("asset: load failed for %q (%s): %v", key, path, err)
		return Unavailable(err.Error())
	}
	return Result{Template: template}
}

// Cached returns the settled result for key without triggering a
// load.
func (r *Resolver) Cached(key string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.cache[key]
	return res, ok
}

// FileLoader is the default LoadFunc: it verifies the asset file
// exists and wraps it in a template mesh. Geometry decoding belongs
// to the rendering frontend; the engine only needs a clonable
// placeholder standing in for the authentic asset.
func FileLoader(_ context.Context, key, path string) (*scene.Mesh, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat asset: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("asset path %s is a directory", path)
	}
	template := scene.NewMesh(key, scene.Box(1, 1, 1), scene.Material{
		Name:    key + "-asset",
		Diffuse: vmath.RGB(0.75, 0.75, 0.78),
	})
	return template, nil
}
