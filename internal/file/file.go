// Package file assembles one parsed, semantically-analyzed source file,
// the ParsedFile every rule operates on. Parsing and semantic-model
// construction happen once per file; CFG, DFG, and taint state are built
// on demand by whichever rule needs them.
package file

import (
	"context"
	"fmt"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/semantic"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// ParsedFile is the immutable input every rule receives.
type ParsedFile struct {
	Path      string
	Source    []byte
	Flavor    gast.Flavor
	Tree      *gast.Tree
	SourceMap *sourcemap.Map
	Semantic  *semantic.Model
}

// Parse parses src according to the flavor inferred from path and builds
// its semantic model.
func Parse(path string, src []byte) (*ParsedFile, error) {
	flavor := gast.FlavorForPath(path)
	tree, err := gast.Parse(context.Background(), src, flavor)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	model := semantic.Build(tree.Root, src)
	return &ParsedFile{
		Path:      path,
		Source:    src,
		Flavor:    flavor,
		Tree:      tree,
		SourceMap: sourcemap.New(src),
		Semantic:  model,
	}, nil
}
