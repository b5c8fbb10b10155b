// Package config defines the engine and server configuration, loaded
// from YAML with defaults applied for anything left unset.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oxbow-labs/diagraph/pkg/assemble"
	"github.com/oxbow-labs/diagraph/pkg/detect"
	"github.com/oxbow-labs/diagraph/pkg/graph"
	"github.com/oxbow-labs/diagraph/pkg/validate"
)

// EngineConfig tunes the assembly and validation stages.
type EngineConfig struct {
	// TagRadius is the maximum distance in pixels from a text block
	// to the node or edge it labels.
	TagRadius float64 `yaml:"tag_radius"`
	// ConnectRadius is the maximum distance in pixels from a line
	// endpoint to the node it attaches to.
	ConnectRadius float64 `yaml:"connect_radius"`
	// MergeRadius is the distance in pixels under which synthetic
	// junctions collapse into one.
	MergeRadius float64 `yaml:"merge_radius"`
	// ConfidenceFloor is the detection confidence below which the
	// validator flags a node or edge.
	ConfidenceFloor float64 `yaml:"confidence_floor"`
	// Vocabulary maps recognized symbol classes to node kinds
	// (equipment, instrument). Empty means the built-in vocabulary.
	Vocabulary map[string]string `yaml:"vocabulary"`
}

// ServerConfig tunes the HTTP service.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
}

// Config is the full service configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Server ServerConfig `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := assemble.DefaultOptions()
	return &Config{
		Engine: EngineConfig{
			TagRadius:       opts.TagRadius,
			ConnectRadius:   opts.ConnectRadius,
			MergeRadius:     opts.MergeRadius,
			ConfidenceFloor: validate.DefaultOptions().ConfidenceFloor,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			LogLevel:        "info",
		},
	}
}

// Load reads a YAML config file and fills unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	c.Engine.TagRadius = DefaultOrFloat(c.Engine.TagRadius, def.Engine.TagRadius)
	c.Engine.ConnectRadius = DefaultOrFloat(c.Engine.ConnectRadius, def.Engine.ConnectRadius)
	c.Engine.MergeRadius = DefaultOrFloat(c.Engine.MergeRadius, def.Engine.MergeRadius)
	c.Engine.ConfidenceFloor = DefaultOrFloat(c.Engine.ConfidenceFloor, def.Engine.ConfidenceFloor)
	c.Server.ListenAddr = DefaultOr(c.Server.ListenAddr, def.Server.ListenAddr)
	c.Server.ReadTimeout = DefaultOr(c.Server.ReadTimeout, def.Server.ReadTimeout)
	c.Server.WriteTimeout = DefaultOr(c.Server.WriteTimeout, def.Server.WriteTimeout)
	c.Server.ShutdownTimeout = DefaultOr(c.Server.ShutdownTimeout, def.Server.ShutdownTimeout)
	c.Server.LogLevel = DefaultOr(c.Server.LogLevel, def.Server.LogLevel)
}

// Validate checks the configuration, reporting every problem found.
func (c *Config) Validate() error {
	v := NewValidator("config").
		PositiveFloat("engine.tag_radius", c.Engine.TagRadius).
		PositiveFloat("engine.connect_radius", c.Engine.ConnectRadius).
		PositiveFloat("engine.merge_radius", c.Engine.MergeRadius).
		RangeFloat("engine.confidence_floor", c.Engine.ConfidenceFloor, 0, 1).
		Required("server.listen_addr", c.Server.ListenAddr).
		PositiveDuration("server.read_timeout", c.Server.ReadTimeout).
		PositiveDuration("server.write_timeout", c.Server.WriteTimeout).
		PositiveDuration("server.shutdown_timeout", c.Server.ShutdownTimeout).
		OneOf("server.log_level", c.Server.LogLevel, []string{"debug", "info", "warn", "error"})
	for class, kind := range c.Engine.Vocabulary {
		v.OneOf("engine.vocabulary."+class, kind,
			[]string{string(graph.KindEquipment), string(graph.KindInstrument)})
	}
	return v.Validate()
}

// AssembleOptions converts the engine section into assembly options.
func (c *Config) AssembleOptions() assemble.Options {
	return assemble.Options{
		TagRadius:     c.Engine.TagRadius,
		ConnectRadius: c.Engine.ConnectRadius,
		MergeRadius:   c.Engine.MergeRadius,
	}
}

// ValidateOptions converts the engine section into validator options.
func (c *Config) ValidateOptions() validate.Options {
	opts := validate.DefaultOptions()
	opts.ConfidenceFloor = c.Engine.ConfidenceFloor
	if len(c.Engine.Vocabulary) > 0 {
		opts.Vocabulary = c.DetectVocabulary().Classes()
	}
	return opts
}

// DetectVocabulary converts the engine vocabulary into the class-kind
// map used for symbol kind inference.
func (c *Config) DetectVocabulary() detect.Vocabulary {
	if len(c.Engine.Vocabulary) == 0 {
		return detect.DefaultVocabulary()
	}
	vocab := make(detect.Vocabulary, len(c.Engine.Vocabulary))
	for class, kind := range c.Engine.Vocabulary {
		vocab[strings.ToLower(class)] = graph.NodeKind(kind)
	}
	return vocab
}
