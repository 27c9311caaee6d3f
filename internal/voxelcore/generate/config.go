package generate

// Config bundles every generation option spec §4.2 enumerates.
// Construction (NewConfig) applies defaults for anything left zero, so
// invalid/partial config is fixed up once at construction, never on
// the hot per-call path (spec §4.2's failure mode).
type Config struct {
	Seed int64

	SeaLevel int

	CaveAmplitude        float64 // A
	VerticalAttenuation  float64 // B
	BaseScale            float64
	DetailScale          float64
	CaveScale            float64
	OctavesBase          int
	OctavesDetail        int
	Octaves3D            int
	Persistence          float64
	Lacunarity           float64
	OreDensity           float64
	TreeDensity          float64
	BonusChest           bool
}

// NewConfig returns a Config with reasonable terrain defaults, then
// applies overrides, then clamps anything nonsensical. Presets (plains,
// mountains, etc.) build from this and tweak individual fields.
func NewConfig(overrides Config) Config {
	c := Config{
		Seed:                overrides.Seed,
		SeaLevel:            63,
		CaveAmplitude:       1.0,
		VerticalAttenuation: 0.02,
		BaseScale:           1.0 / 128.0,
		DetailScale:         1.0 / 32.0,
		CaveScale:           1.0 / 48.0,
		OctavesBase:         4,
		OctavesDetail:       3,
		Octaves3D:           3,
		Persistence:         0.5,
		Lacunarity:          2.0,
		OreDensity:          0.02,
		TreeDensity:         0.02,
		BonusChest:          false,
	}

	if overrides.SeaLevel > 0 {
		c.SeaLevel = overrides.SeaLevel
	}
	if overrides.CaveAmplitude != 0 {
		c.CaveAmplitude = overrides.CaveAmplitude
	}
	if overrides.VerticalAttenuation != 0 {
		c.VerticalAttenuation = overrides.VerticalAttenuation
	}
	if overrides.BaseScale != 0 {
		c.BaseScale = overrides.BaseScale
	}
	if overrides.DetailScale != 0 {
		c.DetailScale = overrides.DetailScale
	}
	if overrides.CaveScale != 0 {
		c.CaveScale = overrides.CaveScale
	}
	if overrides.OctavesBase != 0 {
		c.OctavesBase = overrides.OctavesBase
	}
	if overrides.OctavesDetail != 0 {
		c.OctavesDetail = overrides.OctavesDetail
	}
	if overrides.Octaves3D != 0 {
		c.Octaves3D = overrides.Octaves3D
	}
	if overrides.Persistence != 0 {
		c.Persistence = overrides.Persistence
	}
	if overrides.Lacunarity != 0 {
		c.Lacunarity = overrides.Lacunarity
	}
	if overrides.OreDensity != 0 {
		c.OreDensity = overrides.OreDensity
	}
	if overrides.TreeDensity != 0 {
		c.TreeDensity = overrides.TreeDensity
	}
	c.BonusChest = overrides.BonusChest

	if c.SeaLevel < 0 {
		c.SeaLevel = 0
	}
	if c.SeaLevel >= 128 {
		c.SeaLevel = 127
	}
	return c
}

// Preset names recognized by cmd/voxelsrv's gen_preset flag (spec §6).
const (
	PresetDefault   = "default"
	PresetFlat      = "flat"
	PresetMountains = "mountains"
	PresetIslands   = "islands"
)

// ConfigForPreset returns the Config bundle for a named preset, falling
// back to PresetDefault for an unrecognized name.
func ConfigForPreset(name string, seed int64) Config {
	switch name {
	case PresetFlat:
		return NewConfig(Config{Seed: seed, CaveAmplitude: 0.2, VerticalAttenuation: 0.05, DetailScale: 1.0 / 64.0})
	case PresetMountains:
		return NewConfig(Config{Seed: seed, CaveAmplitude: 2.2, VerticalAttenuation: 0.012, BaseScale: 1.0 / 200.0})
	case PresetIslands:
		return NewConfig(Config{Seed: seed, CaveAmplitude: 1.4, VerticalAttenuation: 0.035, SeaLevel: 80})
	default:
		return NewConfig(Config{Seed: seed})
	}
}
