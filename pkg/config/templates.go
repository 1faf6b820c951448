// pkg/config/templates.go
package config

// LevelTemplate is a named, ready-made level layout
type LevelTemplate struct {
	Name        string
	Description string
	Level       LevelConfig
}

var levelTemplates = map[string]func() LevelTemplate{
	"classic": func() LevelTemplate {
		return LevelTemplate{
			Name:        "Classic",
			Description: "Five rows of eight blocks, tougher towards the top",
			Level:       DefaultLevel(),
		}
	},
	"small": func() LevelTemplate {
		l := DefaultLevel()
		l.Width, l.Height = 200, 200
		l.Rows, l.Columns = 2, 4
		l.RowHealth = []int{1}
		return LevelTemplate{
			Name:        "Small",
			Description: "A cramped arena with two rows of single-hit blocks",
			Level:       l,
		}
	},
	"fortress": func() LevelTemplate {
		l := DefaultLevel()
		l.Rows = 8
		l.RowHealth = []int{5, 4, 4, 3, 3, 2, 2, 1}
		l.PlatformWidth = 40
		return LevelTemplate{
			Name:        "Fortress",
			Description: "Eight heavily armored rows and a narrow platform",
			Level:       l,
		}
	},
	"multiball": func() LevelTemplate {
		l := DefaultLevel()
		l.ExtraBalls = []BallSpec{
			{X: 120, Y: 200, Radius: 5, Speed: 3, DirX: -1, DirY: -1},
			{X: 280, Y: 200, Radius: 5, Speed: 3, DirX: 1, DirY: -1},
		}
		return LevelTemplate{
			Name:        "Multiball",
			Description: "The classic grid with two balls already in play",
			Level:       l,
		}
	},
}

// GetLevelTemplate returns a fresh copy of the named template, or nil
func GetLevelTemplate(name string) *LevelTemplate {
	build, ok := levelTemplates[name]
	if !ok {
		return nil
	}
	t := build()
	return &t
}

// ListLevelTemplates maps template keys to their descriptions
func ListLevelTemplates() map[string]string {
	out := make(map[string]string, len(levelTemplates))
	for key, build := range levelTemplates {
		out[key] = build().Description
	}
	return out
}
