package stream

import (
	"testing"
	"time"

	"github.com/dantero/voxelcore/internal/voxelcore/generate"
	"github.com/dantero/voxelcore/internal/voxelcore/lod"
	"github.com/dantero/voxelcore/internal/voxelcore/mesh"
	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/store"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// fakeUploader counts uploads and releases without touching any GPU
// API, standing in for upload.GLUploader in tests.
type fakeUploader struct {
	uploads  int
	releases int
}

func (f *fakeUploader) Upload(m mesh.RawMesh) (*voxel.GPUMesh, error) {
	f.uploads++
	return &voxel.GPUMesh{IndexCount: int32(len(m.Indices))}, nil
}

func (f *fakeUploader) Release(h *voxel.GPUMesh) {
	f.releases++
}

func testManager(t *testing.T) (*Manager, *fakeUploader) {
	t.Helper()
	reg := registry.NewDefault()
	st := store.New()
	up := &fakeUploader{}
	cfg := Config{
		GenConfig:   generate.NewConfig(generate.Config{Seed: 12345}),
		Radii:       lod.Radii{R0: 2, R1: 3, R2: 4, RMax: 5},
		Budgets:     lod.Budgets{MaxGenerationCloseBand: 64, MaxGenerationFarBand: 64, MaxMeshJobsPerLODPass: 64, MaxUploadsPerFrame: 64, MaxLoadedChunks: 4096, UploadWarningWatermark: 1000, UploadSevereWatermark: 5000},
		GenWorkers:  2,
		MeshWorkers: 2,
	}
	m := NewManager(reg, st, up, cfg)
	t.Cleanup(m.Shutdown)
	return m, up
}

// pollUntil retries fn until it reports true or the timeout elapses,
// driving Update each attempt so async worker completions get drained.
func pollUntil(t *testing.T, m *Manager, timeout time.Duration, fn func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.Update(0, 64, 0)
		if fn() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return fn()
}

func TestUpdateEventuallyLoadsObserverChunk(t *testing.T) {
	m, _ := testManager(t)
	ok := pollUntil(t, m, time.Second, func() bool {
		return m.store.Contains(voxel.Coord{X: 0, Z: 0})
	})
	if !ok {
		t.Fatal("expected the observer's own chunk to load within the timeout")
	}
}

func TestUpdateEventuallyMeshesLoadedChunk(t *testing.T) {
	m, up := testManager(t)
	ok := pollUntil(t, m, 2*time.Second, func() bool {
		c := m.store.Get(voxel.Coord{X: 0, Z: 0})
		return c != nil && !c.MeshSlots[voxel.LOD0].Empty()
	})
	if !ok {
		t.Fatal("expected the observer's chunk to be meshed within the timeout")
	}
	if up.uploads == 0 {
		t.Error("expected at least one GPU upload")
	}
}

func TestSetBlockNoOpForSameID(t *testing.T) {
	m, _ := testManager(t)
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	c.SetBlockRaw(5, 80, 5, registry.Stone)
	m.store.Insert(c)

	m.SetBlock(5, 80, 5, registry.Stone)
	if len(m.takeDirty(10)) != 0 {
		t.Error("expected writing the same block id to mark nothing dirty")
	}
}

func TestSetBlockMarksOwningChunkDirty(t *testing.T) {
	m, _ := testManager(t)
	c := voxel.New(voxel.Coord{X: 0, Z: 0})
	m.store.Insert(c)

	m.SetBlock(5, 80, 5, registry.Stone)
	dirty := m.takeDirty(10)
	found := false
	for _, d := range dirty {
		if d == (voxel.Coord{X: 0, Z: 0}) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected (0,0) to be marked dirty, got %v", dirty)
	}
}

func TestSetBlockAtChunkEdgeDirtiesNeighbor(t *testing.T) {
	m, _ := testManager(t)
	center := voxel.New(voxel.Coord{X: 0, Z: 0})
	west := voxel.New(voxel.Coord{X: -1, Z: 0})
	m.store.Insert(center)
	m.store.Insert(west)

	m.SetBlock(0, 80, 5, registry.Stone) // local x=0: west edge
	dirty := m.takeDirty(10)

	wantCoords := map[voxel.Coord]bool{
		{X: 0, Z: 0}:  false,
		{X: -1, Z: 0}: false,
	}
	for _, d := range dirty {
		if _, ok := wantCoords[d]; ok {
			wantCoords[d] = true
		}
	}
	for coord, seen := range wantCoords {
		if !seen {
			t.Errorf("expected %v to be in the dirty set, got %v", coord, dirty)
		}
	}
}

func TestSetBlockOnUnloadedChunkIsNoOp(t *testing.T) {
	m, _ := testManager(t)
	m.SetBlock(100, 80, 100, registry.Stone) // chunk never loaded
	if len(m.takeDirty(10)) != 0 {
		t.Error("expected no dirty marks for a write against an unloaded chunk")
	}
}

func TestEnforceHardCapUnloadsFarthestFirst(t *testing.T) {
	m, _ := testManager(t)
	m.cfg.Budgets.MaxLoadedChunks = 1
	for _, coord := range []voxel.Coord{{X: 0, Z: 0}, {X: 10, Z: 10}} {
		m.store.Insert(voxel.New(coord))
	}

	m.enforceHardCap(voxel.Coord{X: 0, Z: 0})

	if !m.store.Contains(voxel.Coord{X: 0, Z: 0}) {
		t.Error("expected the chunk nearest the observer to remain loaded")
	}
	if m.store.Contains(voxel.Coord{X: 10, Z: 10}) {
		t.Error("expected the farthest chunk to be evicted")
	}
}

func TestUnloadOutOfRangeRemovesBeyondRMax(t *testing.T) {
	m, _ := testManager(t)
	m.store.Insert(voxel.New(voxel.Coord{X: 0, Z: 0}))
	m.store.Insert(voxel.New(voxel.Coord{X: 100, Z: 100}))

	m.unloadOutOfRange(voxel.Coord{X: 0, Z: 0})

	if !m.store.Contains(voxel.Coord{X: 0, Z: 0}) {
		t.Error("expected the near chunk to remain loaded")
	}
	if m.store.Contains(voxel.Coord{X: 100, Z: 100}) {
		t.Error("expected the far chunk to be unloaded")
	}
}

// backpressureTestManager builds a manager with small, deterministic
// generation budgets and a tiny close band so requestNewChunks's
// submission counts are exactly predictable regardless of spiral
// order.
func backpressureTestManager(t *testing.T) *Manager {
	t.Helper()
	reg := registry.NewDefault()
	st := store.New()
	cfg := Config{
		GenConfig: generate.NewConfig(generate.Config{Seed: 12345}),
		Radii:     lod.Radii{R0: 1, R1: 2, R2: 3, RMax: 6},
		Budgets: lod.Budgets{
			MaxGenerationCloseBand: 4,
			MaxGenerationFarBand:   10,
			MaxMeshJobsPerLODPass:  16,
			MaxUploadsPerFrame:     4,
			MaxLoadedChunks:        4096,
			UploadWarningWatermark: 2,
			UploadSevereWatermark:  5,
		},
		GenWorkers:  2,
		MeshWorkers: 2,
	}
	m := NewManager(reg, st, &fakeUploader{}, cfg)
	t.Cleanup(m.Shutdown)
	return m
}

func TestRequestNewChunksSubmitsFullBudgetWhenQueueIsShallow(t *testing.T) {
	m := backpressureTestManager(t)
	m.requestNewChunks(voxel.Coord{X: 0, Z: 0})

	m.pendingMu.Lock()
	got := len(m.pendingGen)
	m.pendingMu.Unlock()

	if want := 4 + 10; got != want {
		t.Errorf("pendingGen = %d, want %d (unthrottled close+far budget)", got, want)
	}
}

func TestRequestNewChunksHalvesBudgetAboveWarningWatermark(t *testing.T) {
	m := backpressureTestManager(t)
	for i := 0; i < 3; i++ { // > UploadWarningWatermark (2), <= UploadSevereWatermark (5)
		m.meshCompletions <- meshResult{}
	}

	m.requestNewChunks(voxel.Coord{X: 0, Z: 0})

	m.pendingMu.Lock()
	got := len(m.pendingGen)
	m.pendingMu.Unlock()

	if want := 4/2 + 10/2; got != want {
		t.Errorf("pendingGen = %d, want %d (halved close+far budget)", got, want)
	}
}

func TestRequestNewChunksSubmitsNothingAboveSevereWatermark(t *testing.T) {
	m := backpressureTestManager(t)
	for i := 0; i < 6; i++ { // > UploadSevereWatermark (5)
		m.meshCompletions <- meshResult{}
	}

	m.requestNewChunks(voxel.Coord{X: 0, Z: 0})

	m.pendingMu.Lock()
	got := len(m.pendingGen)
	m.pendingMu.Unlock()

	if got != 0 {
		t.Errorf("pendingGen = %d, want 0 (severe watermark submits nothing)", got)
	}
}

func TestStatsReportsLoadedChunkCount(t *testing.T) {
	m, _ := testManager(t)
	m.store.Insert(voxel.New(voxel.Coord{X: 0, Z: 0}))
	m.store.Insert(voxel.New(voxel.Coord{X: 1, Z: 0}))

	if got := m.Stats().LoadedChunks; got != 2 {
		t.Errorf("Stats().LoadedChunks = %d, want 2", got)
	}
}
