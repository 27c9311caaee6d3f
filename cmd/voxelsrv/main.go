// Command voxelsrv is a demo host for the voxelcore streaming
// pipeline: it opens a window, builds the chunk store/generator/
// lighting/mesher/LOD stack, and drives a stream.Manager from a main
// loop shaped like the teacher's game.App.tick, uploading meshes to
// the GPU through upload.GLUploader instead of rendering gameplay.
package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dantero/voxelcore/internal/profiling"
	"github.com/dantero/voxelcore/internal/voxelcore/generate"
	"github.com/dantero/voxelcore/internal/voxelcore/lod"
	"github.com/dantero/voxelcore/internal/voxelcore/persist"
	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/store"
	"github.com/dantero/voxelcore/internal/voxelcore/stream"
	"github.com/dantero/voxelcore/internal/voxelcore/upload"
)

func init() {
	// OpenGL contexts are bound to the thread that created them; the
	// teacher's cmd/mini-mc does the same for the same reason.
	runtime.LockOSThread()
}

type flags struct {
	seed                   int64
	renderDistanceChunks   int
	lodThresholdChunks     int
	maxRenderDistanceChunk int
	saveDir                string
	genPreset              string
	genWorkers             int
	meshWorkers            int
}

func parseFlags() flags {
	var f flags
	flag.Int64Var(&f.seed, "seed", 1, "world generation seed")
	flag.IntVar(&f.renderDistanceChunks, "render_distance_chunks", 6, "LOD0 full-detail radius, in chunks")
	flag.IntVar(&f.lodThresholdChunks, "lod_threshold_chunks", 10, "outer radius, in chunks, of the LOD1 band; LOD2 begins beyond it")
	flag.IntVar(&f.maxRenderDistanceChunk, "max_render_distance_chunks", 16, "radius beyond which chunks unload")
	flag.StringVar(&f.saveDir, "save_dir", "", "badger directory for write-behind persistence; empty disables it")
	flag.StringVar(&f.genPreset, "gen_preset", "default", "generation preset name (see generate.ConfigForPreset)")
	flag.IntVar(&f.genWorkers, "gen_workers", 4, "generation worker pool size")
	flag.IntVar(&f.meshWorkers, "mesh_workers", 3, "mesh worker pool size")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	if err := glfw.Init(); err != nil {
		log.Fatalf("voxelsrv: glfw init failed: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		log.Fatalf("voxelsrv: window setup failed: %v", err)
	}

	mgr, closePersist := buildManager(f)
	defer closePersist()
	defer mgr.Shutdown()

	runLoop(window, mgr)
}

// buildManager wires the registry, chunk store, optional persistence
// backend, and streaming scheduler from the parsed flags. The
// returned closer flushes and closes the persistence backend if one
// was opened.
func buildManager(f flags) (*stream.Manager, func()) {
	reg := registry.NewDefault()
	st := store.New()
	uploader := upload.NewGLUploader()

	var backend persist.Store
	closer := func() {}
	if f.saveDir != "" {
		bs, err := persist.OpenBadgerStore(f.saveDir)
		if err != nil {
			log.Fatalf("voxelsrv: opening save directory %q failed: %v", f.saveDir, err)
		}
		backend = bs
		closer = func() {
			if err := bs.Close(); err != nil {
				log.Printf("voxelsrv: closing persistence store: %v", err)
			}
		}
	} else {
		backend = persist.NewMemStore()
	}

	cfg := stream.Config{
		GenConfig: generate.ConfigForPreset(f.genPreset, f.seed),
		Radii: lod.Radii{
			R0:   f.renderDistanceChunks,
			R1:   f.lodThresholdChunks,
			R2:   (f.lodThresholdChunks + f.maxRenderDistanceChunk) / 2,
			RMax: f.maxRenderDistanceChunk,
		},
		Budgets:     lod.DefaultBudgets(),
		GenWorkers:  f.genWorkers,
		MeshWorkers: f.meshWorkers,
		Persist:     backend,
	}

	mgr := stream.NewManager(reg, st, uploader, cfg)
	return mgr, closer
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(1024, 768, "voxelsrv", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}

	glfw.SwapInterval(1)
	return window, nil
}

// runLoop drives the scheduler once per frame for as long as the
// window stays open, the same shape as the teacher's App.tick: clear
// per-frame profiling totals, poll input, run one Update, log slow
// frames, repeat.
func runLoop(window *glfw.Window, mgr *stream.Manager) {
	observer := mgl32.Vec3{0, 96, 0}

	for !window.ShouldClose() {
		profiling.ResetFrame()
		start := time.Now()

		glfw.PollEvents()
		mgr.Update(observer.X(), observer.Y(), observer.Z())

		window.SwapBuffers()

		if elapsed := time.Since(start); elapsed > 16*time.Millisecond {
			stats := mgr.Stats()
			log.Printf("voxelsrv: slow frame %v (loaded=%d pending_gen=%d meshing=%d dirty=%d)",
				elapsed, stats.LoadedChunks, stats.PendingGeneration, stats.MeshingInProgress, stats.DirtyChunks)
		}
	}
}
