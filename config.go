package reltree

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/syssam/reltree/schema"
)

// DefaultMaxDepth is the recursion depth cap used when no explicit
// depth is configured.
const DefaultMaxDepth = 3

// Config holds every knob of the tree builder. The zero value plus
// defaults (see newConfig) builds an unrestricted tree of depth 3.
//
// All list filters are conjunctive: a relation field is followed only
// if it passes every configured filter. An empty list leaves its
// filter disabled.
type Config struct {
	// MaxDepth caps the recursion depth. The root node has depth 0.
	MaxDepth int `yaml:"max_depth"`
	// CrossDomain allows following relations into entity types of a
	// different logical domain. Disabled by default.
	CrossDomain bool `yaml:"cross_domain"`
	// Rels restricts which relation cardinalities are followed.
	Rels []schema.Rel `yaml:"rels"`
	// Kinds restricts which concrete field kinds are followed.
	Kinds []string `yaml:"kinds"`
	// Paths restricts the tree to an explicit allow-list of field
	// paths. Every listed path is expanded into its prefix set, so
	// "a__b__c" also allows "a" and "a__b".
	Paths []string `yaml:"paths"`
	// Types restricts which related entity types are followed,
	// by type name.
	Types []string `yaml:"types"`
	// Follow is an extension hook: a relation field is followed only
	// if Follow returns true for it. Nil disables the hook.
	Follow func(*schema.RelationField) bool `yaml:"-"`
	// Records is the initial record set of the root entity type. The
	// tree propagates records through its relations only if both
	// Records and Fetcher are set (see WithRecords).
	Records []Record `yaml:"-"`
	// Fetcher loads the related records of a node from the external
	// store during propagation.
	Fetcher Fetcher `yaml:"-"`
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Option configures tree construction.
type Option func(*Config) error

// WithConfig replaces the whole configuration with the given one.
// Useful together with ParseConfig. A zero MaxDepth is replaced with
// DefaultMaxDepth.
func WithConfig(c *Config) Option {
	return func(cfg *Config) error {
		if c == nil {
			return NewConfigError("Config", "configuration cannot be nil")
		}
		*cfg = *c
		if cfg.MaxDepth == 0 {
			cfg.MaxDepth = DefaultMaxDepth
		}
		return nil
	}
}

// WithMaxDepth caps the recursion depth. Zero builds a tree with the
// root node only.
func WithMaxDepth(depth int) Option {
	return func(cfg *Config) error {
		if depth < 0 {
			return NewConfigError("MaxDepth", fmt.Sprintf("depth cannot be negative (got %d)", depth))
		}
		cfg.MaxDepth = depth
		return nil
	}
}

// WithCrossDomain allows following relations into entity types of a
// different logical domain.
func WithCrossDomain() Option {
	return func(cfg *Config) error {
		cfg.CrossDomain = true
		return nil
	}
}

// WithRels restricts which relation cardinalities are followed.
func WithRels(rels ...schema.Rel) Option {
	return func(cfg *Config) error {
		for _, r := range rels {
			if r == schema.Unk {
				return NewConfigError("Rels", "cardinality cannot be unknown")
			}
		}
		cfg.Rels = append(cfg.Rels, rels...)
		return nil
	}
}

// WithKinds restricts which concrete field kinds are followed.
func WithKinds(kinds ...string) Option {
	return func(cfg *Config) error {
		cfg.Kinds = append(cfg.Kinds, kinds...)
		return nil
	}
}

// WithPaths restricts the tree to an explicit allow-list of field
// paths, each expanded into its prefix set.
func WithPaths(paths ...string) Option {
	return func(cfg *Config) error {
		cfg.Paths = append(cfg.Paths, paths...)
		return nil
	}
}

// WithTypes restricts which related entity types are followed.
func WithTypes(names ...string) Option {
	return func(cfg *Config) error {
		cfg.Types = append(cfg.Types, names...)
		return nil
	}
}

// WithFollow installs an extension hook rejecting arbitrary relation
// fields. The hook runs after all built-in filters.
func WithFollow(follow func(*schema.RelationField) bool) Option {
	return func(cfg *Config) error {
		if follow == nil {
			return NewConfigError("Follow", "follow hook cannot be nil")
		}
		cfg.Follow = follow
		return nil
	}
}

// WithRecords seeds the tree with an initial record set of the root
// entity type and the fetcher used to propagate it through relations.
func WithRecords(fetcher Fetcher, records ...Record) Option {
	return func(cfg *Config) error {
		if fetcher == nil {
			return NewConfigError("Fetcher", "fetcher cannot be nil")
		}
		cfg.Fetcher = fetcher
		cfg.Records = records
		return nil
	}
}

// ParseConfig loads a Config from YAML. Cardinalities are spelled with
// their long names:
//
//	max_depth: 2
//	cross_domain: true
//	rels: [many_to_one, many_to_many]
//	paths: [author__posts]
//
// The Follow hook and the Fetcher are code-only and cannot be
// configured declaratively.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{MaxDepth: DefaultMaxDepth}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("reltree: parsing configuration: %w", err)
	}
	if cfg.MaxDepth < 0 {
		return nil, NewConfigError("MaxDepth", fmt.Sprintf("depth cannot be negative (got %d)", cfg.MaxDepth))
	}
	return cfg, nil
}
