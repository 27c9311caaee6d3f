package stream

import (
	"github.com/dantero/voxelcore/internal/voxelcore/generate"
	"github.com/dantero/voxelcore/internal/voxelcore/lod"
	"github.com/dantero/voxelcore/internal/voxelcore/persist"
)

// Config bundles everything the scheduler needs beyond the shared
// store/registry: generation parameters, the LOD radii/budgets, pool
// sizes, and the persistence backend (spec §4.7's named pools, §4.6's
// tunables, §4.8's adapter).
type Config struct {
	GenConfig generate.Config
	Radii     lod.Radii
	Budgets   lod.Budgets

	// GenWorkers / MeshWorkers size the two named worker pools. Spec
	// §5 suggests N=4 generation workers, M=3 mesh workers for a
	// single observer; zero falls back to those defaults.
	GenWorkers  int
	MeshWorkers int

	// Persist is the write-behind persistence adapter. Nil disables
	// persistence entirely: unloaded chunks are simply dropped.
	Persist persist.Store

	// MaxDirtyRebuildsPerFrame bounds step 3 of Update (rebuilding
	// chunks whose blocks changed since their last mesh). Zero falls
	// back to 4.
	MaxDirtyRebuildsPerFrame int
}

func (c Config) withDefaults() Config {
	if c.GenWorkers <= 0 {
		c.GenWorkers = 4
	}
	if c.MeshWorkers <= 0 {
		c.MeshWorkers = 3
	}
	if c.MaxDirtyRebuildsPerFrame <= 0 {
		c.MaxDirtyRebuildsPerFrame = 4
	}
	if c.Radii == (lod.Radii{}) {
		c.Radii = lod.DefaultRadii()
	}
	if c.Budgets == (lod.Budgets{}) {
		c.Budgets = lod.DefaultBudgets()
	}
	return c
}
