// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/archivist/pkg/operation"
	"github.com/walteh/archivist/pkg/pattern"
	"github.com/walteh/archivist/pkg/retention"
	"github.com/walteh/archivist/pkg/scan"
	"github.com/walteh/archivist/pkg/schedule"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 Job is one archive or purge job as written in a config file
type Job struct {
	Name          string   `json:"name" yaml:"name" hcl:"name,label"`
	Mode          string   `json:"mode,omitempty" yaml:"mode,omitempty" hcl:"mode,optional"`
	Source        string   `json:"source" yaml:"source" hcl:"source"`
	Destination   string   `json:"destination,omitempty" yaml:"destination,omitempty" hcl:"destination,optional"`
	Extensions    string   `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`
	RetentionDays *int     `json:"retention_days,omitempty" yaml:"retention_days,omitempty" hcl:"retention_days,optional"`
	MaxDays       *int     `json:"max_days,omitempty" yaml:"max_days,omitempty" hcl:"max_days,optional"`
	Formats       []string `json:"formats,omitempty" yaml:"formats,omitempty" hcl:"formats,optional"`
	Recurse       bool     `json:"recurse,omitempty" yaml:"recurse,omitempty" hcl:"recurse,optional"`
	Demo          bool     `json:"demo,omitempty" yaml:"demo,omitempty" hcl:"demo,optional"`
	Exclude       []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Schedule      string   `json:"schedule,omitempty" yaml:"schedule,omitempty" hcl:"schedule,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Jobs []Job `json:"jobs" yaml:"jobs" hcl:"job,block"`

	location string
}

// 🎯 Load loads the configuration from a file on disk. Every error wraps
// operation.ErrInvalidJob.
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadFs(ctx, afero.NewOsFs(), path)
}

// LoadFs is Load on an arbitrary filesystem.
func LoadFs(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("%w: reading config file: %w", operation.ErrInvalidJob, err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: no parser found for file: %s", operation.ErrInvalidJob, path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("%w: parsing config: %w", operation.ErrInvalidJob, err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("%w: validating config: %w", operation.ErrInvalidJob, err)
	}

	logger.Debug().Int("jobs", len(cfg.Jobs)).Msg("configuration loaded")
	return cfg, nil
}

// Location is the file the config was loaded from, empty when built in code.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks if the configuration is valid. Date formats are checked
// when a job is built so they keep their own exit code.
func (cfg *Config) Validate() error {
	if len(cfg.Jobs) == 0 {
		return errors.Errorf("at least one job is required")
	}

	seen := map[string]bool{}
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]

		if job.Name == "" {
			return errors.Errorf("job %d: name is required", i)
		}
		if seen[job.Name] {
			return errors.Errorf("job %q: duplicate name", job.Name)
		}
		seen[job.Name] = true

		if job.Source == "" {
			return errors.Errorf("job %q: source is required", job.Name)
		}
		mode, err := operation.ParseMode(job.Mode)
		if err != nil {
			return errors.Errorf("job %q: %w", job.Name, err)
		}
		if mode == operation.ModeArchive && job.Destination == "" {
			return errors.Errorf("job %q: destination is required in archive mode", job.Name)
		}
		if job.Schedule != "" {
			if err := schedule.ValidateSpec(job.Schedule); err != nil {
				return errors.Errorf("job %q: %w", job.Name, err)
			}
		}

		// Clean up paths
		job.Source = filepath.Clean(job.Source)
		if job.Destination != "" {
			job.Destination = filepath.Clean(job.Destination)
		}
	}

	return nil
}

// 🔎 Select returns the named jobs in config order, or all of them when no
// names are given.
func (cfg *Config) Select(names ...string) ([]Job, error) {
	if len(names) == 0 {
		return cfg.Jobs, nil
	}

	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}

	var out []Job
	for _, job := range cfg.Jobs {
		if want[job.Name] {
			out = append(out, job)
			delete(want, job.Name)
		}
	}
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		return nil, errors.Errorf("%w: unknown job(s): %s", operation.ErrInvalidJob, strings.Join(missing, ", "))
	}
	return out, nil
}

// 🏗️ Build turns the file representation into a runnable job with defaults applied.
func (j Job) Build() (operation.Job, error) {
	mode, err := operation.ParseMode(j.Mode)
	if err != nil {
		return operation.Job{}, err
	}

	job := operation.Job{
		Name:          j.Name,
		Mode:          mode,
		Source:        j.Source,
		Destination:   j.Destination,
		Extensions:    j.Extensions,
		RetentionDays: retention.DefaultRetentionDays,
		MaxDays:       retention.Unbounded,
		Formats:       j.Formats,
		Recurse:       j.Recurse,
		Demo:          j.Demo,
		Exclude:       j.Exclude,
	}
	if job.Extensions == "" {
		job.Extensions = scan.DefaultExtensions
	}
	if j.RetentionDays != nil {
		job.RetentionDays = *j.RetentionDays
	}
	if j.MaxDays != nil {
		job.MaxDays = *j.MaxDays
	}
	if len(job.Formats) == 0 {
		job.Formats = []string{pattern.DefaultFormat}
	}

	return job, nil
}

// 📝 String returns a string representation of the job
func (j Job) String() string {
	mode := j.Mode
	if mode == "" {
		mode = "archive"
	}
	if j.Destination == "" {
		return fmt.Sprintf("%s[%s]: %s", j.Name, mode, j.Source)
	}
	return fmt.Sprintf("%s[%s]: %s -> %s", j.Name, mode, j.Source, j.Destination)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
