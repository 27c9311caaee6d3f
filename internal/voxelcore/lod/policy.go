// Package lod maps an observer's squared chunk distance to a detail
// level with hysteresis, and holds the per-frame submission budgets
// the streaming scheduler enforces (spec §4.6).
package lod

import "github.com/dantero/voxelcore/internal/voxelcore/voxel"

// Radii are the chunk-radius band boundaries r0 < r1 < r2 < rMax.
// Defaults match spec §4.6's typical values.
type Radii struct {
	R0   int
	R1   int
	R2   int
	RMax int
}

// DefaultRadii returns spec §4.6's typical defaults (8, 12, 20, 40).
func DefaultRadii() Radii {
	return Radii{R0: 8, R1: 12, R2: 20, RMax: 40}
}

// Policy maps distance to LOD level under a fixed set of radii.
type Policy struct {
	radii Radii
}

// NewPolicy returns a Policy using r, clamped so R0<R1<R2<RMax holds
// (a misconfigured band order would make every chunk resolve to the
// same LOD, silently breaking streaming).
func NewPolicy(r Radii) *Policy {
	if r.R0 < 1 {
		r.R0 = 1
	}
	if r.R1 <= r.R0 {
		r.R1 = r.R0 + 1
	}
	if r.R2 <= r.R1 {
		r.R2 = r.R1 + 1
	}
	if r.RMax <= r.R2 {
		r.RMax = r.R2 + 1
	}
	return &Policy{radii: r}
}

// Radii returns the policy's configured band radii.
func (p *Policy) Radii() Radii {
	return p.radii
}

// LevelForDistance maps a squared chunk distance to a LOD level, with
// no hysteresis applied (used to compute the "target" level; callers
// wanting hysteresis use NextLOD).
func (p *Policy) LevelForDistance(distSq int) voxel.LOD {
	switch {
	case distSq <= p.radii.R0*p.radii.R0:
		return voxel.LOD0
	case distSq <= p.radii.R1*p.radii.R1:
		return voxel.LOD1
	case distSq <= p.radii.R2*p.radii.R2:
		return voxel.LOD2
	case distSq <= p.radii.RMax*p.radii.RMax:
		return voxel.LOD3
	default:
		return voxel.NumLOD // sentinel: beyond rMax, caller should unload
	}
}

// OutOfRange reports whether distSq falls beyond the RMax band
// entirely (the chunk should be unloaded, not just coarsened).
func (p *Policy) OutOfRange(distSq int) bool {
	return distSq > p.radii.RMax*p.radii.RMax
}

// hysteresisMarginChunks is spec §4.6's "2 chunks past the boundary"
// requirement before a chunk is allowed to increase detail.
const hysteresisMarginChunks = 2

// NextLOD applies spec §4.6's hysteresis rule: coarsening (increasing
// the LOD number) happens immediately once the target is coarser than
// current; refining (decreasing the LOD number) only happens once the
// observer is at least hysteresisMarginChunks chunks inside the finer
// band's boundary. Ties keep the current LOD.
func (p *Policy) NextLOD(current voxel.LOD, distSq int) voxel.LOD {
	target := p.LevelForDistance(distSq)
	if target == current {
		return current
	}
	if target > current {
		return target // coarser (or unload sentinel): immediate
	}

	// target < current: only refine once comfortably inside the
	// boundary for `target`, not merely across it.
	boundary := p.boundaryRadius(target)
	margin := boundary - hysteresisMarginChunks
	if margin < 0 {
		margin = 0
	}
	if distSq <= margin*margin {
		return target
	}
	return current
}

// boundaryRadius returns the outer radius of the band for level.
func (p *Policy) boundaryRadius(level voxel.LOD) int {
	switch level {
	case voxel.LOD0:
		return p.radii.R0
	case voxel.LOD1:
		return p.radii.R1
	case voxel.LOD2:
		return p.radii.R2
	default:
		return p.radii.RMax
	}
}

// Budgets holds the per-frame submission caps spec §4.6 enumerates as
// implementer-tuned constants.
type Budgets struct {
	MaxGenerationCloseBand int
	MaxGenerationFarBand   int
	MaxMeshJobsPerLODPass  int
	MaxUploadsPerFrame     int
	MaxLoadedChunks        int

	// UploadWarningWatermark / UploadSevereWatermark gate the adaptive
	// upload cap and the submission backpressure rule respectively.
	UploadWarningWatermark int
	UploadSevereWatermark  int
}

// DefaultBudgets returns conservative defaults suitable for a single
// observer.
func DefaultBudgets() Budgets {
	return Budgets{
		MaxGenerationCloseBand: 8,
		MaxGenerationFarBand:   4,
		MaxMeshJobsPerLODPass:  16,
		MaxUploadsPerFrame:     4,
		MaxLoadedChunks:        4096,
		UploadWarningWatermark: 64,
		UploadSevereWatermark:  256,
	}
}

// AdaptiveUploadCap doubles the per-frame upload cap once the queue
// passes the warning watermark, and removes the cap entirely past the
// severe watermark (spec §4.6).
func (b Budgets) AdaptiveUploadCap(queueDepth int) int {
	switch {
	case queueDepth > b.UploadSevereWatermark:
		return -1 // uncapped
	case queueDepth > b.UploadWarningWatermark:
		return b.MaxUploadsPerFrame * 2
	default:
		return b.MaxUploadsPerFrame
	}
}
