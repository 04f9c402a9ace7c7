package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

// UpdateOrder selects how a tick interleaves force computation and integration.
type UpdateOrder string

const (
	// UpdateSequential integrates each boid right after computing its force,
	// later boids see the new state of earlier ones.
	UpdateSequential UpdateOrder = "sequential"
	// UpdateSnapshot computes every force against a frozen copy of the
	// population, then integrates all boids.
	UpdateSnapshot UpdateOrder = "snapshot"
)

// PredatorConfig tunes the pursuit relative to the boid limits.
type PredatorConfig struct {
	TrailLength    int     `json:"trailLength"`
	InitialSpeed   float64 `json:"initialSpeed"`
	Radius         float64 `json:"radius"`         // boids flee inside this distance
	CruiseFactor   float64 `json:"cruiseFactor"`   // desired speed, fraction of MaxSpeed
	SpeedFactor    float64 `json:"speedFactor"`    // speed cap, fraction of MaxSpeed
	ForceFactor    float64 `json:"forceFactor"`    // steering cap, fraction of MaxForce
	BoundaryMargin float64 `json:"boundaryMargin"` // fraction of the half extent
	BoundaryNudge  float64 `json:"boundaryNudge"`  // velocity change per tick past the margin
}

type Config struct {
	// Seed of the random source, 0 means seeded from the clock.
	Seed uint64 `json:"seed"`

	// World Dimensions, the world is the cube [-WorldHalfExtent, WorldHalfExtent]^3
	WorldHalfExtent float64 `json:"worldHalfExtent"`

	// Population
	InitialBoidCount int     `json:"initialBoidCount"`
	GrowthBatch      int     `json:"growthBatch"` // boids added by a growth command without count
	SpawnSpread      float64 `json:"spawnSpread"` // fraction of the half extent used for spawning
	TrailLength      int     `json:"trailLength"`

	// Physics
	MaxSpeed float64 `json:"maxSpeed"`
	MinSpeed float64 `json:"minSpeed"`
	MaxForce float64 `json:"maxForce"`

	// Interaction Radii
	SeparationRadius float64 `json:"separationRadius"`
	AlignmentRadius  float64 `json:"alignmentRadius"`
	CohesionRadius   float64 `json:"cohesionRadius"`
	ObstacleMargin   float64 `json:"obstacleMargin"`

	// Soft walls
	BoundaryMargin   float64 `json:"boundaryMargin"`
	BoundaryStrength float64 `json:"boundaryStrength"`

	// Goal
	GoalSpread         float64 `json:"goalSpread"`
	GoalRelocateChance float64 `json:"goalRelocateChance"` // per tick

	UpdateOrder UpdateOrder         `json:"updateOrder"`
	Predator    PredatorConfig      `json:"predator"`
	Weights     Weights             `json:"weights"`
	Enabled     Toggles             `json:"enabled"`
	Obstacles   []behavior.Obstacle `json:"obstacles"`

	// Display flags, carried in snapshots for the view layer
	ShowTrails  bool `json:"showTrails"`
	ShowBanking bool `json:"showBanking"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldHalfExtent:  50,
		InitialBoidCount: 100,
		GrowthBatch:      10,
		SpawnSpread:      0.8,
		TrailLength:      30,
		MaxSpeed:         2.0,
		MinSpeed:         0.5,
		MaxForce:         0.1,
		SeparationRadius: 5,
		AlignmentRadius:  15,
		CohesionRadius:   20,
		ObstacleMargin:   15,
		BoundaryMargin:   0.8,
		BoundaryStrength: 0.5,
		GoalSpread:       0.6,
		// one relocation every 500 ticks on average
		GoalRelocateChance: 0.002,
		UpdateOrder:        UpdateSequential,
		Predator: PredatorConfig{
			TrailLength:    60,
			InitialSpeed:   1,
			Radius:         25,
			CruiseFactor:   0.7,
			SpeedFactor:    0.8,
			ForceFactor:    0.5,
			BoundaryMargin: 0.9,
			BoundaryNudge:  0.1,
		},
		Weights: Weights{
			Separation: 1.5,
			Alignment:  1.0,
			Cohesion:   1.0,
			Obstacle:   2.0,
			Predator:   3.0,
			Goal:       0.5,
			Boundary:   1.5,
		},
		Enabled: Toggles{
			Separation: true,
			Alignment:  true,
			Cohesion:   true,
			Obstacle:   true,
			Predator:   true,
			Goal:       false,
		},
		Obstacles: []behavior.Obstacle{
			{Position: geometry.NewVector(20, 0, 0), Radius: 8},
			{Position: geometry.NewVector(-20, 10, 15), Radius: 6},
			{Position: geometry.NewVector(0, -15, -20), Radius: 7},
			{Position: geometry.NewVector(-25, 5, -10), Radius: 5},
			{Position: geometry.NewVector(15, 20, 10), Radius: 6},
		},
		ShowTrails:  true,
		ShowBanking: true,
	}
}

// Limits returns the speed and force caps handed to the steering behaviors.
func (c *Config) Limits() behavior.Limits {
	return behavior.Limits{MaxSpeed: c.MaxSpeed, MaxForce: c.MaxForce}
}

// Bounds returns the soft walls of the world.
func (c *Config) Bounds() behavior.Bounds {
	return behavior.Bounds{HalfExtent: c.WorldHalfExtent, Margin: c.BoundaryMargin, Strength: c.BoundaryStrength}
}

// Validate reports every inconsistent parameter at once.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(c.WorldHalfExtent > 0, "worldHalfExtent must be positive, got %v", c.WorldHalfExtent)
	check(c.InitialBoidCount >= 0, "initialBoidCount must not be negative, got %d", c.InitialBoidCount)
	check(c.GrowthBatch > 0, "growthBatch must be positive, got %d", c.GrowthBatch)
	check(inUnit(c.SpawnSpread), "spawnSpread must be in [0, 1], got %v", c.SpawnSpread)
	check(c.TrailLength > 0, "trailLength must be positive, got %d", c.TrailLength)

	check(c.MaxSpeed > 0, "maxSpeed must be positive, got %v", c.MaxSpeed)
	check(c.MinSpeed >= 0, "minSpeed must not be negative, got %v", c.MinSpeed)
	check(c.MinSpeed <= c.MaxSpeed, "minSpeed %v exceeds maxSpeed %v", c.MinSpeed, c.MaxSpeed)
	check(c.MaxForce > 0, "maxForce must be positive, got %v", c.MaxForce)

	check(c.SeparationRadius > 0, "separationRadius must be positive, got %v", c.SeparationRadius)
	check(c.AlignmentRadius > 0, "alignmentRadius must be positive, got %v", c.AlignmentRadius)
	check(c.CohesionRadius > 0, "cohesionRadius must be positive, got %v", c.CohesionRadius)
	check(c.ObstacleMargin >= 0, "obstacleMargin must not be negative, got %v", c.ObstacleMargin)

	check(c.BoundaryMargin > 0 && c.BoundaryMargin <= 1, "boundaryMargin must be in (0, 1], got %v", c.BoundaryMargin)
	check(c.BoundaryStrength >= 0, "boundaryStrength must not be negative, got %v", c.BoundaryStrength)
	check(inUnit(c.GoalSpread), "goalSpread must be in [0, 1], got %v", c.GoalSpread)
	check(inUnit(c.GoalRelocateChance), "goalRelocateChance must be in [0, 1], got %v", c.GoalRelocateChance)

	check(c.UpdateOrder == UpdateSequential || c.UpdateOrder == UpdateSnapshot,
		"updateOrder must be %q or %q, got %q", UpdateSequential, UpdateSnapshot, c.UpdateOrder)

	p := c.Predator
	check(p.TrailLength > 0, "predator.trailLength must be positive, got %d", p.TrailLength)
	check(p.InitialSpeed >= 0, "predator.initialSpeed must not be negative, got %v", p.InitialSpeed)
	check(p.Radius > 0, "predator.radius must be positive, got %v", p.Radius)
	check(p.CruiseFactor > 0, "predator.cruiseFactor must be positive, got %v", p.CruiseFactor)
	check(p.SpeedFactor > 0, "predator.speedFactor must be positive, got %v", p.SpeedFactor)
	check(p.ForceFactor > 0, "predator.forceFactor must be positive, got %v", p.ForceFactor)
	check(p.BoundaryMargin > 0 && p.BoundaryMargin <= 1, "predator.boundaryMargin must be in (0, 1], got %v", p.BoundaryMargin)
	check(p.BoundaryNudge >= 0, "predator.boundaryNudge must not be negative, got %v", p.BoundaryNudge)

	for _, b := range Behaviors {
		w := c.Weights.Of(b)
		check(validWeight(w), "weights.%s: %v", b, ErrInvalidWeight)
	}
	for i, o := range c.Obstacles {
		check(o.Radius > 0, "obstacles[%d].radius must be positive, got %v", i, o.Radius)
		check(o.Position.IsFinite(), "obstacles[%d].position must be finite", i)
	}
	return err
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1 && !math.IsNaN(v)
}

// LoadConfig loads configuration from a JSON, YAML or TOML file over the defaults,
// validates it against the embedded schema and then checks its consistency.
func LoadConfig(configFile string) (*Config, error) {
	sch, err := jsonschema.CompileString("config.schema.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}
	return loadConfig(configFile, sch)
}

// LoadConfigWithSchema is LoadConfig with the schema read from schemaFile.
func LoadConfigWithSchema(configFile string, schemaFile string) (*Config, error) {
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return loadConfig(configFile, sch)
}

func loadConfig(configFile string, sch *jsonschema.Schema) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	doc, err := normalize(b, strings.ToLower(filepath.Ext(configFile)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", configFile, err)
	}
	return ParseConfig(doc, sch)
}

// normalize turns a config document of any supported format into JSON
// so a single schema and a single set of struct tags apply.
func normalize(b []byte, ext string) ([]byte, error) {
	var v any
	switch ext {
	case ".json", "":
		return b, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, err
		}
	case ".toml":
		m := map[string]any{}
		if _, err := toml.Decode(string(b), &m); err != nil {
			return nil, err
		}
		v = m
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return json.Marshal(v)
}

// ParseConfig validates a JSON document against sch and decodes it over DefaultConfig.
func ParseConfig(doc []byte, sch *jsonschema.Schema) (*Config, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	// json reuses the backing array of a slice, a listed obstacle must not inherit default fields
	if m, ok := v.(map[string]interface{}); ok {
		if _, listed := m["obstacles"]; listed {
			cfg.Obstacles = nil
		}
	}
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
