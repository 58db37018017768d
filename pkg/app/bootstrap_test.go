package app

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/simcore/pkg/config"
	"github.com/decker502/simcore/pkg/embedded"
)

const testPresets = `
emitters:
  - name: alpha
  - name: beta
    spawnRate: "5"
`

func TestLoadSimulationConfigEmbedded(t *testing.T) {
	tests := []struct {
		name     string
		files    fstest.MapFS
		wantGrid int
		wantErr  bool
	}{
		{
			name:     "嵌入配置",
			files:    fstest.MapFS{"data/simulation.yaml": {Data: []byte("gridSize: 64\n")}},
			wantGrid: 64,
		},
		{
			name:     "缺少配置使用默认值",
			files:    fstest.MapFS{"data/other.yaml": {Data: []byte("x: 1\n")}},
			wantGrid: config.DefaultGridSize,
		},
		{
			name:    "非法配置",
			files:   fstest.MapFS{"data/simulation.yaml": {Data: []byte("gridSize: -1\n")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedded.Init(tt.files)
			defer embedded.Init(nil)

			cfg, err := LoadSimulationConfig("")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSimulationConfig failed: %v", err)
			}
			if cfg.GridSize != tt.wantGrid {
				t.Errorf("GridSize = %d, want %d", cfg.GridSize, tt.wantGrid)
			}
		})
	}
}

func TestLoadPresetLibrary(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/particles/basic.yaml": {Data: []byte(testPresets)},
		"data/extra/more.yaml":      {Data: []byte("emitters:\n  - name: gamma\n")},
	})
	defer embedded.Init(nil)

	lib, err := LoadPresetLibrary(config.DefaultSimulationConfig())
	if err != nil {
		t.Fatalf("LoadPresetLibrary failed: %v", err)
	}
	if lib.Len() != 2 {
		t.Errorf("default pattern loaded %d presets, want 2", lib.Len())
	}

	cfg := config.DefaultSimulationConfig()
	cfg.Presets = []string{"data/particles/basic.yaml", "data/extra/*.yaml"}
	lib, err = LoadPresetLibrary(cfg)
	if err != nil {
		t.Fatalf("LoadPresetLibrary failed: %v", err)
	}
	if got := lib.Names(); len(got) != 3 || got[2] != "gamma" {
		t.Errorf("Names() = %v, want [alpha beta gamma]", got)
	}

	cfg.Presets = []string{"data/missing/*.yaml"}
	if _, err := LoadPresetLibrary(cfg); err == nil {
		t.Error("expected error for unmatched pattern")
	}
}
