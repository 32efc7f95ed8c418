package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrUnreachable wraps failures to open or parse the source export. The
// engine treats it as fatal.
var ErrUnreachable = errors.New("source unreachable")

// Source reads subtrees of the hierarchical store. A nil node with a nil
// error means the path is absent.
type Source interface {
	ReadSubtree(ctx context.Context, path string) (*Node, error)
}

// FileSource reads subtrees from a JSON export file. The file is parsed
// once, on first use; subsequent reads navigate the in-memory tree.
type FileSource struct {
	path string

	once sync.Once
	root *Node
	err  error
}

// NewFileSource returns a Source over the JSON export at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ReadSubtree navigates the export by slash-separated path segments.
// Navigating through a scalar, an array, or a missing key yields absent.
func (s *FileSource) ReadSubtree(ctx context.Context, path string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(s.load)
	if s.err != nil {
		return nil, s.err
	}
	node := s.root
	for _, seg := range splitPath(path) {
		node = node.Child(seg)
		if node == nil {
			return nil, nil
		}
	}
	return node, nil
}

func (s *FileSource) load() {
	f, err := os.Open(s.path)
	if err != nil {
		s.err = fmt.Errorf("%w: %v", ErrUnreachable, err)
		return
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		s.err = fmt.Errorf("%w: parsing %s: %v", ErrUnreachable, s.path, err)
		return
	}
	s.root = root
}

// StaticSource serves subtrees of a pre-built tree. Used by tests and by
// callers that already hold the export in memory.
type StaticSource struct {
	root *Node
}

// NewStaticSource returns a Source over root.
func NewStaticSource(root *Node) *StaticSource {
	return &StaticSource{root: root}
}

// ReadSubtree navigates root by slash-separated path segments.
func (s *StaticSource) ReadSubtree(ctx context.Context, path string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	node := s.root
	for _, seg := range splitPath(path) {
		node = node.Child(seg)
		if node == nil {
			return nil, nil
		}
	}
	return node, nil
}

func splitPath(path string) []string {
	var segs []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
