package wiregen

// Generator provides a fluent API over Generate.
// Create with FromPackages and configure with method chaining:
//
//	wiregen.FromPackages("./api").ToDir("./api")
type Generator struct {
	cfg Config
}

// FromPackages creates a Generator scanning the given package patterns.
func FromPackages(patterns ...string) *Generator {
	return &Generator{cfg: Config{Patterns: patterns}}
}

// Dir sets the working directory for package loading.
func (g *Generator) Dir(dir string) *Generator {
	g.cfg.Dir = dir
	return g
}

// Generate runs the pass and returns the artifacts in memory.
func (g *Generator) Generate() (*Result, error) {
	return Generate(&g.cfg)
}

// ToDir runs the pass and writes the artifacts under dir. Artifacts that
// generated cleanly are written even when some declarations failed hard, so
// a broken declaration does not hold the rest of the build hostage.
func (g *Generator) ToDir(dir string) (*Result, error) {
	result, err := Generate(&g.cfg)
	if result != nil {
		if writeErr := result.WriteTo(dir); writeErr != nil && err == nil {
			err = writeErr
		}
	}
	return result, err
}
