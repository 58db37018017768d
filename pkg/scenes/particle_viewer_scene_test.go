package scenes

import (
	"math/rand/v2"
	"testing"

	"github.com/decker502/simcore/internal/particle"
	"github.com/decker502/simcore/pkg/components"
	"github.com/decker502/simcore/pkg/ecs"
	"github.com/decker502/simcore/pkg/game"
)

func newTestLibrary(t *testing.T, names ...string) *particle.Library {
	t.Helper()
	lib := particle.NewLibrary()
	for _, name := range names {
		cfg := particle.DefaultSystemConfig()
		cfg.Name = name
		if err := lib.Add(&cfg); err != nil {
			t.Fatalf("Add(%s) failed: %v", name, err)
		}
	}
	return lib
}

func newTestViewer(t *testing.T, settings *game.SettingsManager, names ...string) *particleViewer {
	t.Helper()
	v, err := newParticleViewer(ViewerOptions{
		Library:  newTestLibrary(t, names...),
		Settings: settings,
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Width:    800,
		Height:   600,
	})
	if err != nil {
		t.Fatalf("newParticleViewer failed: %v", err)
	}
	return v
}

func TestNewParticleViewerRequiresPresets(t *testing.T) {
	if _, err := newParticleViewer(ViewerOptions{}); err == nil {
		t.Error("expected error without library")
	}
	if _, err := newParticleViewer(ViewerOptions{Library: particle.NewLibrary()}); err == nil {
		t.Error("expected error with empty library")
	}
}

func TestParticleViewerRestoresSettings(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	settings.SetTimeScale(2)
	settings.SetLastPreset("smoke")

	v := newTestViewer(t, settings, "fountain", "smoke")
	if v.browser.Current() != "smoke" {
		t.Errorf("Current() = %q, want last preset smoke", v.browser.Current())
	}
	if v.sim.TimeScale.Value != 2 {
		t.Errorf("TimeScale = %v, want 2", v.sim.TimeScale.Value)
	}
}

func TestParticleViewerSpawnAndClear(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	v := newTestViewer(t, settings, "fountain", "smoke")

	id, err := v.spawnCurrent(100, 200)
	if err != nil {
		t.Fatalf("spawnCurrent failed: %v", err)
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](v.sim.EntityManager, id)
	if !ok || pos.X != 100 || pos.Y != 200 {
		t.Errorf("emitter position = %+v", pos)
	}
	if settings.GetSettings().LastPreset != "fountain" {
		t.Errorf("LastPreset = %q, want fountain", settings.GetSettings().LastPreset)
	}

	for i := 0; i < 30; i++ {
		v.step(1.0 / 60)
	}
	emitters, particles := v.counts()
	if emitters != 1 || particles == 0 {
		t.Fatalf("counts = %d emitters, %d particles", emitters, particles)
	}

	v.clear()
	if emitters, particles := v.counts(); emitters != 0 || particles != 0 {
		t.Errorf("after clear: %d emitters, %d particles", emitters, particles)
	}
}

func TestParticleViewerSpawnWithoutSelection(t *testing.T) {
	v := newTestViewer(t, nil, "fountain")
	v.browser.SetFilter("nothing")
	if _, err := v.spawnCurrent(0, 0); err == nil {
		t.Error("expected error when no preset matches")
	}
}

func TestParticleViewerPause(t *testing.T) {
	v := newTestViewer(t, nil, "fountain")
	v.paused = true
	v.step(1.0 / 60)
	if v.sim.Time.Frame() != 0 {
		t.Errorf("paused viewer advanced to frame %d", v.sim.Time.Frame())
	}
	v.paused = false
	v.step(1.0 / 60)
	if v.sim.Time.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", v.sim.Time.Frame())
	}
}

func TestParticleViewerTimeScale(t *testing.T) {
	tests := []struct {
		name  string
		steps []float64
		want  float64
	}{
		{"加速", []float64{timeScaleStep, timeScaleStep}, 1.5},
		{"减速到零", []float64{-1, -1}, game.MinTimeScale},
		{"上限", []float64{10}, game.MaxTimeScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViewer(t, nil, "fountain")
			for _, d := range tt.steps {
				v.adjustTimeScale(d)
			}
			if v.sim.TimeScale.Value != tt.want {
				t.Errorf("TimeScale = %v, want %v", v.sim.TimeScale.Value, tt.want)
			}
		})
	}
}

func TestParticleViewerInitialFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   string
		total  int
	}{
		{"匹配过滤", "smo", "smoke", 1},
		{"无匹配显示全部", "zzz", "fountain", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := newParticleViewer(ViewerOptions{
				Library: newTestLibrary(t, "fountain", "smoke"),
				Filter:  tt.filter,
			})
			if err != nil {
				t.Fatal(err)
			}
			if v.browser.Current() != tt.want {
				t.Errorf("Current() = %q, want %q", v.browser.Current(), tt.want)
			}
			if _, total := v.browser.Position(); total != tt.total {
				t.Errorf("filtered total = %d, want %d", total, tt.total)
			}
		})
	}
}

func TestParticleViewerAutoPlay(t *testing.T) {
	v, err := newParticleViewer(ViewerOptions{
		Library:  newTestLibrary(t, "a", "b", "c"),
		Rand:     rand.New(rand.NewPCG(3, 4)),
		AutoPlay: 0.5,
		Width:    800,
		Height:   600,
	})
	if err != nil {
		t.Fatal(err)
	}

	v.step(0.25)
	if v.browser.Current() != "a" {
		t.Fatalf("switched too early: %q", v.browser.Current())
	}
	v.step(0.25)
	if v.browser.Current() != "b" {
		t.Errorf("Current() = %q, want b", v.browser.Current())
	}
	if emitters, _ := v.counts(); emitters != 1 {
		t.Errorf("emitters = %d, want 1 spawned by auto play", emitters)
	}
}
