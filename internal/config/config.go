package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Altitude strategies understood by the world generator.
const (
	AltitudeRidges   = "ridges"
	AltitudeTectonic = "tectonic"
)

// Atmosphere strategies registered by the atmosphere package.
const (
	StrategyLogCommit = "logcommit"
	StrategyDirect    = "direct"
)

// Config captures every tunable of a single map generation run. It is passed
// by value and never mutated once a world has been built from it.
type Config struct {
	Seed        int64             `yaml:"seed"`
	Altitude    string            `yaml:"altitude"`
	Mesh        MeshConfig        `yaml:"mesh"`
	Tectonics   TectonicsConfig   `yaml:"tectonics"`
	Mountains   MountainConfig    `yaml:"mountains"`
	Deform      DeformConfig      `yaml:"deform"`
	Atmosphere  AtmosphereConfig  `yaml:"atmosphere"`
	LogCommit   LogCommitConfig   `yaml:"log_commit"`
	Direct      DirectConfig      `yaml:"direct"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Water       WaterConfig       `yaml:"water"`
	Season      SeasonConfig      `yaml:"season"`
}

type MeshConfig struct {
	TotalCells  int `yaml:"total_cells"`
	RelaxPasses int `yaml:"relax_passes"`
}

// TectonicsConfig drives plate placement for the ridge altitude strategy.
type TectonicsConfig struct {
	PlatesMin            int     `yaml:"plates_min"`
	PlatesMax            int     `yaml:"plates_max"` // exclusive
	MinDist              float64 `yaml:"min_dist"`
	AttemptsToPlace      int     `yaml:"attempts_to_place"`
	SmoothingResolution  int     `yaml:"smoothing_resolution"`
	SmoothingRepetitions int     `yaml:"smoothing_repetitions"`
	Midpoint             float64 `yaml:"midpoint"`
}

type MountainConfig struct {
	RidgesMin           int     `yaml:"ridges_min"`
	RidgesMax           int     `yaml:"ridges_max"`
	PeakReductionFactor float64 `yaml:"peak_reduction_factor"`
	PeakWeight          float64 `yaml:"peak_weight"`
	MaxNodeChain        int     `yaml:"max_node_chain"`
	ForkChance          float64 `yaml:"fork_chance"`
}

// DeformConfig drives the tectonic deformation altitude strategy.
type DeformConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Plates          int     `yaml:"plates"`
	Sweeps          int     `yaml:"sweeps"`
	Weight          float64 `yaml:"weight"`
	Speed           float64 `yaml:"speed"`
	DensityDeviance float64 `yaml:"density_deviance"`
	Growth          float64 `yaml:"growth"`
	FaultMagnitude  float64 `yaml:"fault_magnitude"`
	WrapHorizontal  bool    `yaml:"wrap_horizontal"`
}

type AtmosphereConfig struct {
	Strategy      string  `yaml:"strategy"`
	Presim        int     `yaml:"presim"`
	TropicsExtent float64 `yaml:"tropics_extent"`
	ArcticExtent  float64 `yaml:"arctic_extent"`
	HumidityBase  float64 `yaml:"humidity_base"`
	HumidityNoise float64 `yaml:"humidity_noise"` // amplitude of the Perlin seed field
	NoiseScale    float64 `yaml:"noise_scale"`
}

// LogCommitConfig tunes the two-phase atmosphere strategy.
type LogCommitConfig struct {
	TransferSlope    float64 `yaml:"transfer_slope"`
	TransferOffset   float64 `yaml:"transfer_offset"`
	TempMix          float64 `yaml:"temp_mix"`
	LatitudeForcing  float64 `yaml:"latitude_forcing"`
	DeflectionWeight float64 `yaml:"deflection_weight"`
	Resistance       float64 `yaml:"resistance"`
	HardCap          float64 `yaml:"hard_cap"`
	TempRelax        float64 `yaml:"temp_relax"`
}

// DirectConfig tunes the single-log atmosphere strategy. Its thresholds are
// calibrated separately from LogCommitConfig.
type DirectConfig struct {
	CriticalAngle      float64 `yaml:"critical_angle"`
	TempsCriticalAngle float64 `yaml:"temps_critical_angle"`
	TakeStrength       float64 `yaml:"take_strength"`
	SoftCap            float64 `yaml:"soft_cap"`
	HardCap            float64 `yaml:"hard_cap"`
	Resistance         float64 `yaml:"resistance"`
	JetStream          float64 `yaml:"jet_stream"`
	DeflectionWeight   float64 `yaml:"deflection_weight"`
	BaroTransferRate   float64 `yaml:"baro_transfer_rate"`
	BaroWindEffect     float64 `yaml:"baro_wind_effect"`
	HeatBias           float64 `yaml:"heat_bias"`
	TempTransferRate   float64 `yaml:"temp_transfer_rate"`
}

// TemperatureConfig values are in degrees Fahrenheit.
type TemperatureConfig struct {
	Equatorial          float64 `yaml:"equatorial"`
	Freezing            float64 `yaml:"freezing"`
	Lowest              float64 `yaml:"lowest"`
	Highest             float64 `yaml:"highest"`
	EquatorialRise      float64 `yaml:"equatorial_rise"`
	ArcticCooling       float64 `yaml:"arctic_cooling"`
	NaturalCooling      float64 `yaml:"natural_cooling"`
	AltCoolingThreshold float64 `yaml:"alt_cooling_threshold"`
	AltCooling          float64 `yaml:"alt_cooling"`
}

type WaterConfig struct {
	SeaLevel       float64 `yaml:"sea_level"`
	VolumeScale    float64 `yaml:"volume_scale"`
	Reabsorption   float64 `yaml:"reabsorption"`
	FlowTicksToAve int     `yaml:"flow_ticks_to_ave"`
	DrainRate      float64 `yaml:"drain_rate"`
	RainShare      float64 `yaml:"rain_share"`
	RainfallMod    float64 `yaml:"rainfall_mod"`
	HumidEvapRate  float64 `yaml:"humid_evap_rate"`
	BaroEvapRate   float64 `yaml:"baro_evap_rate"`
}

type SeasonConfig struct {
	TicksPerYear int     `yaml:"ticks_per_year"`
	Incline      float64 `yaml:"incline"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Seed:     42,
		Altitude: AltitudeRidges,
		Mesh: MeshConfig{
			TotalCells:  3000,
			RelaxPasses: 5,
		},
		Tectonics: TectonicsConfig{
			PlatesMin:            10,
			PlatesMax:            35,
			MinDist:              0.1,
			AttemptsToPlace:      30,
			SmoothingResolution:  4,
			SmoothingRepetitions: 2,
			Midpoint:             0.5,
		},
		Mountains: MountainConfig{
			RidgesMin:           7,
			RidgesMax:           25,
			PeakReductionFactor: 0.05,
			PeakWeight:          0.9,
			MaxNodeChain:        300,
			ForkChance:          0.15,
		},
		Deform: DeformConfig{
			Width:           96,
			Height:          96,
			Plates:          12,
			Sweeps:          10,
			Weight:          4.0,
			Speed:           0.1,
			DensityDeviance: 0.1,
			Growth:          0.005,
			FaultMagnitude:  0.2,
			WrapHorizontal:  true,
		},
		Atmosphere: AtmosphereConfig{
			Strategy:      StrategyLogCommit,
			Presim:        0,
			TropicsExtent: 0.2,
			ArcticExtent:  0.2,
			HumidityBase:  0.2,
			HumidityNoise: 0.3,
			NoiseScale:    2.5,
		},
		LogCommit: LogCommitConfig{
			TransferSlope:    6,
			TransferOffset:   0.5,
			TempMix:          0.25,
			LatitudeForcing:  0.25,
			DeflectionWeight: 1.3,
			Resistance:       0.02,
			HardCap:          1.0,
			TempRelax:        0.05,
		},
		Direct: DirectConfig{
			CriticalAngle:      2,
			TempsCriticalAngle: 4,
			TakeStrength:       0.22,
			SoftCap:            0.7,
			HardCap:            1.0,
			Resistance:         0.15,
			JetStream:          0.15,
			DeflectionWeight:   1.3,
			BaroTransferRate:   0.04,
			BaroWindEffect:     2.0,
			HeatBias:           1.2,
			TempTransferRate:   0.1,
		},
		Temperature: TemperatureConfig{
			Equatorial:          95,
			Freezing:            32,
			Lowest:              -35,
			Highest:             130,
			EquatorialRise:      11,
			ArcticCooling:       6,
			NaturalCooling:      0.1,
			AltCoolingThreshold: 0.6,
			AltCooling:          2.0,
		},
		Water: WaterConfig{
			SeaLevel:       0.33,
			VolumeScale:    1000,
			Reabsorption:   0.05,
			FlowTicksToAve: 10,
			DrainRate:      0.1,
			RainShare:      0.1,
			RainfallMod:    100,
			HumidEvapRate:  0.01,
			BaroEvapRate:   0.002,
		},
		Season: SeasonConfig{
			TicksPerYear: 120,
			Incline:      0.1,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects contradictory settings before any simulation state is built.
func (c Config) Validate() error {
	if c.Altitude != AltitudeRidges && c.Altitude != AltitudeTectonic {
		return fmt.Errorf("altitude must be %q or %q", AltitudeRidges, AltitudeTectonic)
	}
	if c.Mesh.TotalCells < 2 {
		return errors.New("mesh.total_cells must be at least 2")
	}
	if c.Mesh.RelaxPasses < 0 {
		return errors.New("mesh.relax_passes cannot be negative")
	}
	if c.Tectonics.PlatesMin < 1 {
		return errors.New("tectonics.plates_min must be positive")
	}
	if c.Tectonics.PlatesMax <= c.Tectonics.PlatesMin {
		return errors.New("tectonics.plates_max must be greater than plates_min")
	}
	if c.Tectonics.AttemptsToPlace < 1 {
		return errors.New("tectonics.attempts_to_place must be positive")
	}
	if c.Tectonics.SmoothingResolution < 0 || c.Tectonics.SmoothingRepetitions < 0 {
		return errors.New("tectonics smoothing settings cannot be negative")
	}
	if c.Mountains.RidgesMin < 0 || c.Mountains.RidgesMax < c.Mountains.RidgesMin {
		return errors.New("mountains.ridges_max must be >= ridges_min >= 0")
	}
	if c.Mountains.PeakWeight < 0 || c.Mountains.PeakWeight > 1 {
		return errors.New("mountains.peak_weight must be within [0,1]")
	}
	if c.Mountains.ForkChance < 0 || c.Mountains.ForkChance > 1 {
		return errors.New("mountains.fork_chance must be within [0,1]")
	}
	if c.Deform.Width < 2 || c.Deform.Height < 2 {
		return errors.New("deform grid must be at least 2x2")
	}
	if c.Deform.Plates < 1 {
		return errors.New("deform.plates must be positive")
	}
	if c.Deform.Sweeps < 0 {
		return errors.New("deform.sweeps cannot be negative")
	}
	if c.Atmosphere.Strategy != StrategyLogCommit && c.Atmosphere.Strategy != StrategyDirect {
		return fmt.Errorf("atmosphere.strategy must be %q or %q", StrategyLogCommit, StrategyDirect)
	}
	if c.Atmosphere.Presim < 0 {
		return errors.New("atmosphere.presim cannot be negative")
	}
	if c.Atmosphere.TropicsExtent <= 0 || c.Atmosphere.ArcticExtent <= 0 {
		return errors.New("atmosphere tropics/arctic extents must be positive")
	}
	if c.LogCommit.HardCap <= 0 || c.LogCommit.HardCap > 1 {
		return errors.New("log_commit.hard_cap must be within (0,1]")
	}
	if c.LogCommit.Resistance < 0 {
		return errors.New("log_commit.resistance cannot be negative")
	}
	if c.Direct.CriticalAngle <= 0 || c.Direct.TempsCriticalAngle <= 0 {
		return errors.New("direct critical angles must be positive")
	}
	if c.Direct.HardCap <= 0 || c.Direct.HardCap > 1 {
		return errors.New("direct.hard_cap must be within (0,1]")
	}
	if c.Direct.SoftCap > c.Direct.HardCap {
		return errors.New("direct.soft_cap must be <= hard_cap")
	}
	if c.Direct.Resistance < 0 || c.Direct.Resistance > 1 {
		return errors.New("direct.resistance must be within [0,1]")
	}
	if c.Direct.HeatBias <= 0 {
		return errors.New("direct.heat_bias must be positive")
	}
	if c.Direct.BaroWindEffect <= 0 {
		return errors.New("direct.baro_wind_effect must be positive")
	}
	if c.Temperature.Lowest >= c.Temperature.Highest {
		return errors.New("temperature.lowest must be below highest")
	}
	if c.Temperature.Equatorial <= c.Temperature.Lowest {
		return errors.New("temperature.equatorial must be above lowest")
	}
	if c.Temperature.Freezing >= c.Temperature.Highest {
		return errors.New("temperature.freezing must be below highest")
	}
	if c.Temperature.AltCoolingThreshold >= 1 {
		return errors.New("temperature.alt_cooling_threshold must be below 1")
	}
	if c.Water.SeaLevel < 0 || c.Water.SeaLevel > 1 {
		return errors.New("water.sea_level must be within [0,1]")
	}
	if c.Water.VolumeScale <= 0 {
		return errors.New("water.volume_scale must be positive")
	}
	if c.Water.FlowTicksToAve < 1 {
		return errors.New("water.flow_ticks_to_ave must be positive")
	}
	if c.Water.Reabsorption < 0 || c.Water.Reabsorption > 1 {
		return errors.New("water.reabsorption must be within [0,1]")
	}
	if c.Water.DrainRate < 0 || c.Water.DrainRate > 1 {
		return errors.New("water.drain_rate must be within [0,1]")
	}
	if c.Season.TicksPerYear < 4 {
		return errors.New("season.ticks_per_year must be at least 4")
	}
	return nil
}
