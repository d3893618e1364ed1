package config

import (
	"fmt"
	"os"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
	"gopkg.in/yaml.v3"
)

// ManifestDefaults are applied to services that omit per-service targets
// or scaling bounds.
type ManifestDefaults struct {
	ResponseTimeMs float64 `yaml:"response_time_ms"`
	ErrorRatePct   float64 `yaml:"error_rate_pct"`
	MinInstances   int     `yaml:"min_instances"`
	MaxInstances   int     `yaml:"max_instances"`
}

// Manifest describes the build targets and monitored services. It is
// loaded once at process start and treated as immutable afterwards.
type Manifest struct {
	Targets  []models.BuildTarget `yaml:"targets"`
	Services []models.Service     `yaml:"services"`
	Defaults ManifestDefaults     `yaml:"defaults"`
}

// LoadManifest reads and validates a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Defaults.ResponseTimeMs == 0 {
		m.Defaults.ResponseTimeMs = 500
	}
	if m.Defaults.ErrorRatePct == 0 {
		m.Defaults.ErrorRatePct = 1
	}
	if m.Defaults.MinInstances == 0 {
		m.Defaults.MinInstances = 1
	}
	if m.Defaults.MaxInstances == 0 {
		m.Defaults.MaxInstances = 3
	}

	for i := range m.Services {
		svc := &m.Services[i]
		if svc.Kind == "" {
			svc.Kind = models.ServiceKindAPI
		}
		if svc.Targets.ResponseTimeMs == 0 {
			svc.Targets.ResponseTimeMs = m.Defaults.ResponseTimeMs
		}
		if svc.Targets.ErrorRatePct == 0 {
			svc.Targets.ErrorRatePct = m.Defaults.ErrorRatePct
		}
		if svc.Scaling.MinInstances == 0 {
			svc.Scaling.MinInstances = m.Defaults.MinInstances
		}
		if svc.Scaling.MaxInstances == 0 {
			svc.Scaling.MaxInstances = m.Defaults.MaxInstances
		}
	}
}

// Validate checks the manifest for configuration errors. An empty
// manifest (no targets and no services) is the one unrecoverable
// startup error in the system.
func (m *Manifest) Validate() error {
	if len(m.Targets) == 0 && len(m.Services) == 0 {
		return fmt.Errorf("manifest defines no build targets and no services")
	}

	seen := make(map[string]bool)
	for _, t := range m.Targets {
		if t.ID == "" {
			return fmt.Errorf("build target with empty id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate build target id %q", t.ID)
		}
		seen[t.ID] = true
		if t.SourceDirectory == "" {
			return fmt.Errorf("build target %q has no source_directory", t.ID)
		}
		if t.BuildCommand == "" {
			return fmt.Errorf("build target %q has no build_command", t.ID)
		}
	}

	seenSvc := make(map[string]bool)
	for _, s := range m.Services {
		if s.ID == "" {
			return fmt.Errorf("service with empty id")
		}
		if seenSvc[s.ID] {
			return fmt.Errorf("duplicate service id %q", s.ID)
		}
		seenSvc[s.ID] = true
		if s.URL == "" {
			return fmt.Errorf("service %q has no url", s.ID)
		}
		if s.Kind != models.ServiceKindStatic && s.Kind != models.ServiceKindAPI {
			return fmt.Errorf("service %q has unknown kind %q", s.ID, s.Kind)
		}
		if s.Scaling.MinInstances < 1 {
			return fmt.Errorf("service %q: min_instances must be at least 1", s.ID)
		}
		if s.Scaling.MaxInstances < s.Scaling.MinInstances {
			return fmt.Errorf("service %q: max_instances below min_instances", s.ID)
		}
	}

	return nil
}
