package docs

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/allocation"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// jsonBlocks returns the json fenced blocks of file by their info string.
func jsonBlocks(t *testing.T, file string) []*Block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		info := string(fcb.Info.Segment.Value(content))
		if info != "json" && !strings.HasPrefix(info, "json ") {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    info,
			Content: b.String(),
			File:    file,
			Line:    lineNumber(content, fcb.Info.Segment.Start),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

func decodeWith[T any](decode func(io.Reader) (T, error)) func(string) error {
	return func(s string) error {
		_, err := decode(strings.NewReader(s))
		return err
	}
}

func decodeAny(r io.Reader) (any, error) {
	var v any
	err := json.NewDecoder(r).Decode(&v)
	return v, err
}

// TestJSONExamples decodes every json example of the documentation with the
// decoder its info string names.
func TestJSONExamples(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	decoders := map[string]func(string) error{
		"json hierarchy": decodeWith(allocation.DecodeHierarchy),
		"json plan":      decodeWith(allocation.DecodePlan),
		"json snapshot":  decodeWith(allocation.DecodeSnapshot),
		"json":           decodeWith(decodeAny),
	}

	var count int
	for _, file := range files {
		for _, block := range jsonBlocks(t, file) {
			count++
			decode, ok := decoders[block.Type]
			if !ok {
				t.Errorf("%s:%d: unknown json block %q", block.File, block.Line, block.Type)
				continue
			}
			if err := decode(block.Content); err != nil {
				t.Errorf("%s:%d: invalid %s example: %v", block.File, block.Line, block.Type, err)
			}
		}
	}
	if count == 0 {
		t.Errorf("no json example found")
	}
}
