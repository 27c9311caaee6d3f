package stream

import (
	"log"

	"github.com/dantero/voxelcore/internal/voxelcore/voxel"
)

// Error handling follows spec §7: no worker failure ever propagates to
// the observer thread, and no single chunk failure halts streaming.
// Each of the cases below is logged once at the point it's detected
// and then handled by falling back to documented, non-fatal behavior.

// logGenerationFailure handles case 2: the chunk is dropped and treated
// as never having been requested, so it is eligible for resubmission
// on a later Update.
func logGenerationFailure(coord voxel.Coord, err error) {
	log.Printf("stream: generation failed for chunk %v: %v", coord, err)
}

// logMeshFailure handles case 3: the chunk keeps whatever mesh it had
// uploaded for this LOD level previously (possibly none, which renders
// as a hole until a later LOD reassessment retries it).
func logMeshFailure(coord voxel.Coord, level voxel.LOD, err error) {
	log.Printf("stream: meshing failed for chunk %v at %v: %v", coord, level, err)
}

// logUploadFailure handles case 4 (e.g. GPU OOM): the payload is
// dropped and the chunk keeps its previous mesh slot.
func logUploadFailure(coord voxel.Coord, level voxel.LOD, err error) {
	log.Printf("stream: GPU upload failed for chunk %v at %v: %v", coord, level, err)
}

// logPersistFailure logs case 5 and leaves the chunk's Modified flag
// untouched. Nothing in this package calls it, and Shutdown only
// flushes the persistence adapter; it does not save chunks still loaded.
func logPersistFailure(coord voxel.Coord, err error) {
	log.Printf("stream: persistence enqueue failed for chunk %v: %v", coord, err)
}

// recoverGeneration turns a panicking generator call into an error
// result instead of crashing a worker goroutine. The deterministic
// generator in this package never panics in practice, but the worker
// loop must survive one regardless — a future generation backend
// (imported presets, external tooling) is not guaranteed to be as
// well-behaved.
func recoverGeneration(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{r}
		}
	}()
	fn()
	return nil
}

type panicError struct{ value any }

func (p panicError) Error() string {
	return "recovered panic: " + errValueString(p.value)
}

func errValueString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "non-error panic value"
}
