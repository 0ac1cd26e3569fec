// Package main provides a generator that extracts CLI, configuration and
// lint rule metadata from leaplint source code and generates markdown
// documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/concepts
//	go run ./scripts/gendocs -gen=lint -outdir=docs/linting
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, lint, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps a -gen value to its generator and default directory
// under docs/.
var generators = map[string]struct {
	dir string
	gen func(outDir string) error
}{
	"cli":    {"cli", generateCLIDocs},
	"config": {"concepts", generateConfigDocs},
	"lint":   {"linting", generateLintDocs},
}

func main() {
	flag.Parse()

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	if err := run(*genFlag, *outDirFlag, filepath.Join(projectRoot, "docs")); err != nil {
		log.Fatal(err)
	}
	log.Println("Done!")
}

// run generates the docs named by gen. outDir overrides the output
// directory of a single generator; otherwise pages go to docsDir/<dir>.
func run(gen, outDir, docsDir string) error {
	if gen == "all" {
		for _, name := range []string{"cli", "config", "lint"} {
			g := generators[name]
			if err := g.gen(filepath.Join(docsDir, g.dir)); err != nil {
				return fmt.Errorf("failed to generate %s docs: %w", name, err)
			}
		}
		return nil
	}

	g, ok := generators[gen]
	if !ok {
		return fmt.Errorf("unknown -gen value: %s (use: cli, config, lint, all)", gen)
	}
	if outDir == "" {
		outDir = filepath.Join(docsDir, g.dir)
	}
	if err := g.gen(outDir); err != nil {
		return fmt.Errorf("failed to generate %s docs: %w", gen, err)
	}
	return nil
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
