package scenes

import (
	"log"

	"github.com/decker502/simcore/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// 场景名称
const (
	SceneParticles = "particles"
	SceneCollision = "collision"
)

// Names 返回所有可加载的场景名称
func Names() []string {
	return []string{SceneParticles, SceneCollision}
}

// NewSceneFactory 返回按名称创建场景的工厂函数
// 创建失败时记录日志并返回 nil
func NewSceneFactory(opts ViewerOptions, seed uint64) game.SceneFactory {
	return func(name string) game.Scene {
		var (
			scene game.Scene
			err   error
		)
		switch name {
		case SceneParticles:
			scene, err = NewParticleViewerScene(opts)
		case SceneCollision:
			scene, err = NewCollisionDemoScene(opts, seed)
		default:
			log.Printf("[Scenes] Unknown scene %q (available: %v)", name, Names())
			return nil
		}
		if err != nil {
			log.Printf("[Scenes] Failed to create scene %q: %v", name, err)
			return nil
		}
		return scene
	}
}
