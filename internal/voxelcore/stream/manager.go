// Package stream implements the streaming scheduler (spec §4.7): the
// single component that owns chunk lifecycle end to end, coordinating
// generation and mesh worker pools against the shared chunk store
// under one observer's per-frame Update call. Nothing outside this
// package touches the generation, lighting, or meshing packages
// directly once a Manager exists.
package stream

import (
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/dantero/voxelcore/internal/profiling"
	"github.com/dantero/voxelcore/internal/voxelcore/generate"
	"github.com/dantero/voxelcore/internal/voxelcore/light"
	"github.com/dantero/voxelcore/internal/voxelcore/lod"
	"github.com/dantero/voxelcore/internal/voxelcore/mesh"
	"github.com/dantero/voxelcore/internal/voxelcore/registry"
	"github.com/dantero/voxelcore/internal/voxelcore/snapshot"
	"github.com/dantero/voxelcore/internal/voxelcore/store"
	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// Uploader is the observer/GL-thread boundary a Manager uploads
// through. Mesh workers never call it — only drainMeshUploads, itself
// only ever invoked from Update, does (spec §5: mesh slots are written
// only on the observer thread during the upload step).
type Uploader interface {
	Upload(m mesh.RawMesh) (*voxel.GPUMesh, error)
	Release(h *voxel.GPUMesh)
}

type genJob struct {
	coord      voxel.Coord
	simplified bool
}

type genResult struct {
	coord voxel.Coord
	chunk *voxel.Chunk
	err   error
}

type meshJob struct {
	coord voxel.Coord
	level voxel.LOD
	snap  *snapshot.Snapshot
}

type meshResult struct {
	coord    voxel.Coord
	level    voxel.LOD
	full     mesh.FullMesh // populated only when level == voxel.LOD0
	opaque   mesh.RawMesh  // populated for every other level
	err      error
	lostRace bool // chunk was unloaded before the job started
}

// Manager is the ChunkManager: it owns the generation and mesh worker
// pools, the pending/in-progress job sets, and the dirty-rebuild and
// mesh-upload queues, and drives all of it from one Update call per
// observer frame.
type Manager struct {
	cfg       Config
	reg       *registry.Registry
	store     *store.Store
	generator *generate.Generator
	light     *light.Propagator
	mesher    *mesh.Mesher
	policy    *lod.Policy
	uploader  Uploader

	genJobs         chan genJob
	meshJobs        chan meshJob
	genCompletions  chan genResult
	meshCompletions chan meshResult

	pendingMu         sync.Mutex
	pendingGen        map[voxel.Coord]struct{}
	meshingInProgress map[voxel.Coord]struct{}

	dirtyMu sync.Mutex
	dirty   map[voxel.Coord]struct{}

	haveObserver  bool
	observerChunk voxel.Coord

	wg sync.WaitGroup
}

// NewManager constructs a Manager and starts its worker pools.
// uploader may be nil for a headless/server configuration — mesh jobs
// still run, but Update records logical completion without touching
// any mesh slot's GPU handle.
func NewManager(reg *registry.Registry, st *store.Store, uploader Uploader, cfg Config) *Manager {
	cfg = cfg.withDefaults()
	m := &Manager{
		cfg:               cfg,
		reg:               reg,
		store:             st,
		generator:         generate.New(reg),
		light:             light.New(reg),
		mesher:            mesh.New(reg),
		policy:            lod.NewPolicy(cfg.Radii),
		uploader:          uploader,
		genJobs:           make(chan genJob, cfg.GenWorkers*64),
		meshJobs:          make(chan meshJob, cfg.MeshWorkers*64),
		genCompletions:    make(chan genResult, cfg.GenWorkers*64),
		meshCompletions:   make(chan meshResult, 4096),
		pendingGen:        make(map[voxel.Coord]struct{}),
		meshingInProgress: make(map[voxel.Coord]struct{}),
		dirty:             make(map[voxel.Coord]struct{}),
	}

	m.wg.Add(cfg.GenWorkers + cfg.MeshWorkers)
	for i := 0; i < cfg.GenWorkers; i++ {
		go m.genWorker()
	}
	for i := 0; i < cfg.MeshWorkers; i++ {
		go m.meshWorker()
	}
	return m
}

// Update runs one scheduling pass for an observer at world position
// (x, y, z): drain completions, rebuild dirty meshes, reassess LOD,
// unload out-of-range chunks on a chunk change, then request new
// chunks outward from the observer (spec §4.7's six-step sequence).
// Never blocks the caller on generation or meshing — both pools run
// independently and report back through the completion channels this
// call drains.
func (m *Manager) Update(x, y, z float32) {
	defer profiling.Track("stream.Manager.Update")()
	_ = y // world height has no chunk stacking in this scheme

	observer := voxel.CoordOfBlock(int(math.Floor(float64(x))), int(math.Floor(float64(z))))

	m.drainGenerationCompletions()
	m.drainMeshUploads()
	m.rebuildDirtyMeshes()
	m.reassessLOD(observer)

	if !m.haveObserver || observer != m.observerChunk {
		m.unloadOutOfRange(observer)
		m.enforceHardCap(observer)
		m.observerChunk = observer
		m.haveObserver = true
	}

	m.requestNewChunks(observer)
}

// step 1
func (m *Manager) drainGenerationCompletions() {
	defer profiling.Track("stream.Manager.drainGenerationCompletions")()
	for {
		select {
		case res := <-m.genCompletions:
			m.pendingMu.Lock()
			delete(m.pendingGen, res.coord)
			m.pendingMu.Unlock()

			if res.err != nil {
				logGenerationFailure(res.coord, res.err)
				continue
			}
			if m.store.Contains(res.coord) {
				continue // lost race: already loaded via another path
			}
			m.store.Insert(res.chunk)
			dirty := m.light.SeedInitial(res.chunk, m.store)
			m.markDirty(dirty...)
		default:
			return
		}
	}
}

// step 2
func (m *Manager) drainMeshUploads() {
	defer profiling.Track("stream.Manager.drainMeshUploads")()
	queueDepth := len(m.meshCompletions)
	uploadCap := m.cfg.Budgets.AdaptiveUploadCap(queueDepth)

	uploaded := 0
	for uploadCap < 0 || uploaded < uploadCap {
		select {
		case res := <-m.meshCompletions:
			m.pendingMu.Lock()
			delete(m.meshingInProgress, res.coord)
			m.pendingMu.Unlock()

			if res.lostRace {
				continue // normal: chunk unloaded before the job ran
			}
			if res.err != nil {
				logMeshFailure(res.coord, res.level, res.err)
				continue
			}
			c := m.store.Get(res.coord)
			if c == nil {
				continue // unloaded between completion and upload
			}
			m.applyMeshResult(c, res)
			uploaded++
		default:
			return
		}
	}
}

func (m *Manager) applyMeshResult(c *voxel.Chunk, res meshResult) {
	if m.uploader == nil {
		c.CurrentLOD = res.level
		c.Dirty = false
		return
	}

	if res.level == voxel.LOD0 {
		opaqueHandle, err := m.uploader.Upload(res.full.Opaque)
		if err != nil {
			logUploadFailure(c.Coord, res.level, err)
			return
		}
		var transparentHandle *voxel.GPUMesh
		if !res.full.Transparent.Empty() {
			transparentHandle, err = m.uploader.Upload(res.full.Transparent)
			if err != nil {
				logUploadFailure(c.Coord, res.level, err)
			}
		}
		m.releaseSlot(c.MeshSlots[voxel.LOD0])
		c.MeshSlots[voxel.LOD0] = voxel.MeshSlot{Opaque: opaqueHandle, Transparent: transparentHandle}
	} else {
		handle, err := m.uploader.Upload(res.opaque)
		if err != nil {
			logUploadFailure(c.Coord, res.level, err)
			return
		}
		m.releaseSlot(c.MeshSlots[res.level])
		c.MeshSlots[res.level] = voxel.MeshSlot{Opaque: handle}
	}

	c.CurrentLOD = res.level
	c.Dirty = false
	if c.State < voxel.Meshed {
		c.State = voxel.Meshed
	}
}

func (m *Manager) releaseSlot(slot voxel.MeshSlot) {
	if m.uploader == nil {
		return
	}
	if slot.Opaque != nil {
		m.uploader.Release(slot.Opaque)
	}
	if slot.Transparent != nil {
		m.uploader.Release(slot.Transparent)
	}
}

// step 3
func (m *Manager) rebuildDirtyMeshes() {
	defer profiling.Track("stream.Manager.rebuildDirtyMeshes")()
	for _, coord := range m.takeDirty(m.cfg.MaxDirtyRebuildsPerFrame) {
		c := m.store.Get(coord)
		if c == nil {
			continue
		}
		m.submitMeshJob(coord, c.CurrentLOD)
	}
}

// step 4
func (m *Manager) reassessLOD(observer voxel.Coord) {
	defer profiling.Track("stream.Manager.reassessLOD")()
	submitted := 0
	maxJobs := m.cfg.Budgets.MaxMeshJobsPerLODPass

	m.store.IterLoaded(func(c *voxel.Chunk) {
		if submitted >= maxJobs {
			return
		}
		distSq := chunkDistSq(c.Coord, observer)
		target := m.policy.NextLOD(c.CurrentLOD, distSq)
		if target >= voxel.NumLOD {
			return // beyond rMax: step 5 unloads it, not meshes it
		}
		if target == c.CurrentLOD && !c.MeshSlots[target].Empty() {
			return
		}
		if m.submitMeshJob(c.Coord, target) {
			submitted++
		}
	})
}

func (m *Manager) submitMeshJob(coord voxel.Coord, level voxel.LOD) bool {
	m.pendingMu.Lock()
	if _, inProgress := m.meshingInProgress[coord]; inProgress {
		m.pendingMu.Unlock()
		return false
	}
	m.meshingInProgress[coord] = struct{}{}
	m.pendingMu.Unlock()

	snap := snapshot.Capture(m.store, coord)
	if snap == nil {
		m.pendingMu.Lock()
		delete(m.meshingInProgress, coord)
		m.pendingMu.Unlock()
		return false
	}

	select {
	case m.meshJobs <- meshJob{coord: coord, level: level, snap: snap}:
		return true
	default:
		m.pendingMu.Lock()
		delete(m.meshingInProgress, coord)
		m.pendingMu.Unlock()
		return false
	}
}

// step 5
func (m *Manager) unloadOutOfRange(observer voxel.Coord) {
	defer profiling.Track("stream.Manager.unloadOutOfRange")()
	var toUnload []voxel.Coord
	m.store.IterLoaded(func(c *voxel.Chunk) {
		if m.policy.OutOfRange(chunkDistSq(c.Coord, observer)) {
			toUnload = append(toUnload, c.Coord)
		}
	})
	for _, coord := range toUnload {
		m.unloadChunk(coord)
	}
}

func (m *Manager) enforceHardCap(observer voxel.Coord) {
	defer profiling.Track("stream.Manager.enforceHardCap")()
	maxLoaded := m.cfg.Budgets.MaxLoadedChunks
	if maxLoaded <= 0 {
		return
	}
	n := m.store.Len()
	if n <= maxLoaded {
		return
	}

	type ranked struct {
		coord  voxel.Coord
		distSq int
	}
	var coords []ranked
	m.store.IterLoaded(func(c *voxel.Chunk) {
		coords = append(coords, ranked{c.Coord, chunkDistSq(c.Coord, observer)})
	})
	sort.Slice(coords, func(i, j int) bool { return coords[i].distSq > coords[j].distSq })

	excess := n - maxLoaded
	for i := 0; i < excess && i < len(coords); i++ {
		m.unloadChunk(coords[i].coord)
	}
}

func (m *Manager) unloadChunk(coord voxel.Coord) {
	c := m.store.Remove(coord)
	if c == nil {
		return
	}
	for _, slot := range c.MeshSlots {
		m.releaseSlot(slot)
	}
	if c.Modified && m.cfg.Persist != nil {
		m.cfg.Persist.SaveChunk(c)
	}
	m.dirtyMu.Lock()
	delete(m.dirty, coord)
	m.dirtyMu.Unlock()
	m.pendingMu.Lock()
	delete(m.meshingInProgress, coord)
	m.pendingMu.Unlock()
}

// step 6
func (m *Manager) requestNewChunks(observer voxel.Coord) {
	defer profiling.Track("stream.Manager.requestNewChunks")()
	radii := m.policy.Radii()
	closeBudget := m.cfg.Budgets.MaxGenerationCloseBand
	farBudget := m.cfg.Budgets.MaxGenerationFarBand

	queueDepth := len(m.meshCompletions)
	severe := m.cfg.Budgets.UploadSevereWatermark
	warning := m.cfg.Budgets.UploadWarningWatermark
	switch {
	case severe > 0 && queueDepth > severe:
		return // submit nothing this frame
	case warning > 0 && queueDepth > warning:
		closeBudget /= 2
		farBudget /= 2
	}

	submittedClose, submittedFar := 0, 0
	walkSpiral(observer, radii.RMax, func(coord voxel.Coord) bool {
		if submittedClose >= closeBudget && submittedFar >= farBudget {
			return false
		}
		if m.store.Contains(coord) {
			return true
		}

		if chunkDistSq(coord, observer) <= radii.R0*radii.R0 {
			if submittedClose < closeBudget && m.requestGeneration(coord, false) {
				submittedClose++
			}
		} else {
			if submittedFar < farBudget && m.requestGeneration(coord, true) {
				submittedFar++
			}
		}
		return true
	})
}

func (m *Manager) requestGeneration(coord voxel.Coord, simplified bool) bool {
	if m.store.Contains(coord) {
		return false
	}
	m.pendingMu.Lock()
	if _, ok := m.pendingGen[coord]; ok {
		m.pendingMu.Unlock()
		return false
	}
	m.pendingGen[coord] = struct{}{}
	m.pendingMu.Unlock()

	select {
	case m.genJobs <- genJob{coord: coord, simplified: simplified}:
		return true
	default:
		m.pendingMu.Lock()
		delete(m.pendingGen, coord)
		m.pendingMu.Unlock()
		return false
	}
}

func (m *Manager) genWorker() {
	defer m.wg.Done()
	for job := range m.genJobs {
		m.genCompletions <- m.runGenJob(job)
	}
}

func (m *Manager) runGenJob(job genJob) genResult {
	if m.cfg.Persist != nil {
		if c, ok := m.cfg.Persist.LoadChunk(job.coord); ok {
			return genResult{coord: job.coord, chunk: c}
		}
	}

	var chunk *voxel.Chunk
	err := recoverGeneration(func() {
		if job.simplified {
			chunk = m.generator.GenerateSimplified(job.coord, m.cfg.GenConfig.Seed, m.cfg.GenConfig)
		} else {
			chunk = m.generator.GenerateFull(job.coord, m.cfg.GenConfig.Seed, m.cfg.GenConfig)
		}
	})
	if err != nil {
		return genResult{coord: job.coord, err: err}
	}
	return genResult{coord: job.coord, chunk: chunk}
}

func (m *Manager) meshWorker() {
	defer m.wg.Done()
	for job := range m.meshJobs {
		m.meshCompletions <- m.runMeshJob(job)
	}
}

func (m *Manager) runMeshJob(job meshJob) meshResult {
	if !m.store.Contains(job.coord) {
		return meshResult{coord: job.coord, level: job.level, lostRace: true}
	}
	res := meshResult{coord: job.coord, level: job.level}
	res.err = recoverGeneration(func() {
		if job.level == voxel.LOD0 {
			res.full = m.mesher.MeshFull(job.snap)
		} else {
			res.opaque = m.mesher.MeshLOD(job.snap, job.level)
		}
	})
	return res
}

// SetBlock implements spec §6's set_block: writes a block at world
// coordinates, runs the appropriate incremental lighting update, and
// queues mesh rebuilds for the owning chunk plus any cardinal neighbor
// that shares the edited cell's chunk-edge. A no-op write (same id
// already present) touches nothing.
func (m *Manager) SetBlock(worldX, y, worldZ int, id voxel.BlockID) {
	coord := voxel.CoordOfBlock(worldX, worldZ)
	lx, lz := voxel.LocalOfBlock(worldX, worldZ)

	c := m.store.Get(coord)
	if c == nil {
		return
	}
	if !c.SetBlock(lx, y, lz, id) {
		return
	}

	var relit []voxel.Coord
	if id == 0 {
		relit = m.light.OnBlockRemoved(c, lx, y, lz)
	} else {
		relit = m.light.OnBlockPlaced(c, lx, y, lz)
	}
	m.markDirty(relit...)
	m.markDirty(coord)

	switch lx {
	case 0:
		m.markDirty(voxel.Coord{X: coord.X - 1, Z: coord.Z})
	case voxel.ChunkSizeX - 1:
		m.markDirty(voxel.Coord{X: coord.X + 1, Z: coord.Z})
	}
	switch lz {
	case 0:
		m.markDirty(voxel.Coord{X: coord.X, Z: coord.Z - 1})
	case voxel.ChunkSizeZ - 1:
		m.markDirty(voxel.Coord{X: coord.X, Z: coord.Z + 1})
	}
}

// Shutdown signals both worker pools to stop accepting new jobs and
// waits up to two seconds for in-flight jobs to finish, then gives up
// and returns regardless (spec §5's shutdown timeout). Flushes the
// persistence adapter last, once no more unloads can be in flight.
func (m *Manager) Shutdown() {
	close(m.genJobs)
	close(m.meshJobs)

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Printf("stream: shutdown timed out waiting for workers to drain")
	}

	if m.cfg.Persist != nil {
		if err := m.cfg.Persist.Flush(); err != nil {
			log.Printf("stream: final flush failed: %v", err)
		}
	}
}

func (m *Manager) markDirty(coords ...voxel.Coord) {
	if len(coords) == 0 {
		return
	}
	m.dirtyMu.Lock()
	for _, c := range coords {
		m.dirty[c] = struct{}{}
	}
	m.dirtyMu.Unlock()
}

func (m *Manager) takeDirty(max int) []voxel.Coord {
	m.dirtyMu.Lock()
	defer m.dirtyMu.Unlock()
	out := make([]voxel.Coord, 0, max)
	for coord := range m.dirty {
		if len(out) >= max {
			break
		}
		out = append(out, coord)
		delete(m.dirty, coord)
	}
	return out
}

func chunkDistSq(a, b voxel.Coord) int {
	dx := int(a.X - b.X)
	dz := int(a.Z - b.Z)
	return dx*dx + dz*dz
}

// Stats summarizes scheduler state for diagnostics and tests.
type Stats struct {
	LoadedChunks      int
	PendingGeneration int
	MeshingInProgress int
	DirtyChunks       int
}

// Stats returns a point-in-time snapshot of scheduler load.
func (m *Manager) Stats() Stats {
	m.pendingMu.Lock()
	pending := len(m.pendingGen)
	inProgress := len(m.meshingInProgress)
	m.pendingMu.Unlock()

	m.dirtyMu.Lock()
	dirty := len(m.dirty)
	m.dirtyMu.Unlock()

	return Stats{
		LoadedChunks:      m.store.Len(),
		PendingGeneration: pending,
		MeshingInProgress: inProgress,
		DirtyChunks:       dirty,
	}
}
