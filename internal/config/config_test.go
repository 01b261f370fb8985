package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromPath(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name: "valid config with all fields",
			config: Config{
				Name:    "task-tools",
				Surface: "./surfaces/2024.1.json",
				Catalog: "./templates",
				Out:     "./plugins",
				Request: "./requests/flag-task.json",
				Dev: DevConfig{
					Watch:   []string{"surfaces/*.json", "templates/*.yaml"},
					Exclude: []string{"plugins/"},
				},
			},
		},
		{
			name: "config with defaults",
			config: Config{
				Name: "minimal",
			},
		},
		{
			name:   "empty config file",
			config: Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "plugsmith.json")

			data, err := json.MarshalIndent(tt.config, "", "  ")
			require.NoError(t, err)

			err = os.WriteFile(configPath, data, 0644)
			require.NoError(t, err)

			got, err := LoadConfigFromPath(configPath)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, tt.config.Name, got.Name)

			// Check defaults were applied
			if tt.config.Surface == "" {
				assert.Equal(t, "./surface.json", got.Surface)
			}
			if tt.config.Out == "" {
				assert.Equal(t, "./dist", got.Out)
			}
			if tt.config.Request == "" {
				assert.Equal(t, "./request.json", got.Request)
			}
			if len(tt.config.Dev.Watch) == 0 {
				assert.Contains(t, got.Dev.Watch, "*.json")
				assert.Contains(t, got.Dev.Watch, "**/*.yaml")
			}
			if len(tt.config.Dev.Exclude) == 0 {
				assert.Contains(t, got.Dev.Exclude, "dist/")
				assert.Contains(t, got.Dev.Exclude, ".git/")
			}
		})
	}
}

func TestLoadConfigFromPath_Errors(t *testing.T) {
	tests := []struct {
		name        string
		setupFunc   func(string) string
		errContains string
	}{
		{
			name: "file not found",
			setupFunc: func(tmpDir string) string {
				return filepath.Join(tmpDir, "nonexistent.json")
			},
			errContains: "failed to read config file",
		},
		{
			name: "invalid json",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, "plugsmith.json")
				os.WriteFile(path, []byte("invalid json"), 0644)
				return path
			},
			errContains: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := tt.setupFunc(tmpDir)

			_, err := LoadConfigFromPath(configPath)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("config in current dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "plugsmith.json")

		config := Config{Name: "current-dir-project"}

		data, _ := json.MarshalIndent(config, "", "  ")
		err := os.WriteFile(configPath, data, 0644)
		require.NoError(t, err)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		err = os.Chdir(tmpDir)
		require.NoError(t, err)

		got, projectRoot, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, config.Name, got.Name)
		// Use filepath.EvalSymlinks to resolve any symlinks for comparison
		expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
		actualRoot, _ := filepath.EvalSymlinks(projectRoot)
		assert.Equal(t, expectedRoot, actualRoot)
	})

	t.Run("config in parent dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		subDir := filepath.Join(tmpDir, "subdir")
		err := os.MkdirAll(subDir, 0755)
		require.NoError(t, err)

		configPath := filepath.Join(tmpDir, "plugsmith.json")
		config := Config{Name: "parent-dir-project"}

		data, _ := json.MarshalIndent(config, "", "  ")
		err = os.WriteFile(configPath, data, 0644)
		require.NoError(t, err)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		err = os.Chdir(subDir)
		require.NoError(t, err)

		got, projectRoot, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, config.Name, got.Name)
		expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
		actualRoot, _ := filepath.EvalSymlinks(projectRoot)
		assert.Equal(t, expectedRoot, actualRoot)
	})

	t.Run("no config found", func(t *testing.T) {
		tmpDir := t.TempDir()

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		err := os.Chdir(tmpDir)
		require.NoError(t, err)

		_, _, err = LoadConfig()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no plugsmith.json found")
	})
}
