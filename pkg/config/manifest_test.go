package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "optimizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadManifestAppliesDefaults(t *testing.T) {
	path := writeManifest(t, `
targets:
  - id: frontend
    source_directory: ./frontend
    checksum_inputs:
      - package.json
    build_command: npm run build
services:
  - id: api
    url: https://api.example.com
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	require.Len(t, m.Targets, 1)
	require.Len(t, m.Services, 1)

	svc := m.Services[0]
	assert.Equal(t, models.ServiceKindAPI, svc.Kind)
	assert.Equal(t, 500.0, svc.Targets.ResponseTimeMs)
	assert.Equal(t, 1.0, svc.Targets.ErrorRatePct)
	assert.Equal(t, 1, svc.Scaling.MinInstances)
	assert.Equal(t, 3, svc.Scaling.MaxInstances)
}

func TestLoadManifestKeepsExplicitValues(t *testing.T) {
	path := writeManifest(t, `
defaults:
  response_time_ms: 200
  max_instances: 5
services:
  - id: web
    url: https://web.example.com
    kind: static
    provider: netlify
    targets:
      response_time_ms: 50
    scaling:
      min_instances: 2
      max_instances: 4
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	svc := m.Services[0]
	assert.Equal(t, models.ServiceKindStatic, svc.Kind)
	assert.Equal(t, "netlify", svc.Provider)
	assert.Equal(t, 50.0, svc.Targets.ResponseTimeMs)
	assert.Equal(t, 2, svc.Scaling.MinInstances)
	assert.Equal(t, 4, svc.Scaling.MaxInstances)
}

func TestLoadManifestRejectsEmpty(t *testing.T) {
	path := writeManifest(t, "defaults:\n  response_time_ms: 100\n")

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no build targets and no services")
}

func TestLoadManifestRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name: "duplicate target id",
			manifest: `
targets:
  - id: app
    source_directory: ./a
    build_command: make a
  - id: app
    source_directory: ./b
    build_command: make b
`,
			wantErr: "duplicate build target id",
		},
		{
			name: "target without command",
			manifest: `
targets:
  - id: app
    source_directory: ./a
`,
			wantErr: "no build_command",
		},
		{
			name: "service without url",
			manifest: `
services:
  - id: api
`,
			wantErr: "no url",
		},
		{
			name: "service with unknown kind",
			manifest: `
services:
  - id: api
    url: https://api.example.com
    kind: lambda
`,
			wantErr: "unknown kind",
		},
		{
			name: "max below min",
			manifest: `
services:
  - id: api
    url: https://api.example.com
    scaling:
      min_instances: 3
      max_instances: 2
`,
			wantErr: "max_instances below min_instances",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tt.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
