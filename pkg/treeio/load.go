package treeio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Format is a tree file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatHTML
	FormatYAML
	FormatBinary
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatYAML:
		return "yaml"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// FormatOf picks a format from a file name's extension.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return FormatHTML
	case ".yaml", ".yml", ".json":
		return FormatYAML
	case ".vt":
		return FormatBinary
	default:
		return FormatUnknown
	}
}

// Load reads a tree file. The format follows the extension.
func Load(path string) (*vdom.Node, error) {
	if FormatOf(path) == FormatUnknown {
		return nil, unsupported(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(path, data)
}

// LoadBytes parses data in the format named by name's extension.
// Failures are *errors.Error values with code I001 or I002.
func LoadBytes(name string, data []byte) (*vdom.Node, error) {
	var (
		n   *vdom.Node
		err error
	)
	switch FormatOf(name) {
	case FormatHTML:
		n, err = ParseHTML(bytes.NewReader(data))
	case FormatYAML:
		n, err = DecodeYAML(bytes.NewReader(data))
	case FormatBinary:
		n, err = protocol.DecodeNode(data)
	default:
		return nil, unsupported(name)
	}
	if err != nil {
		return nil, vterrors.New(vterrors.CodeParseFailed).
			WithDetailf("Could not read a tree from %s.", name).
			WithLocationFromError(name, err).
			Wrap(err)
	}
	return n, nil
}

// Marshal encodes n in the format named by name's extension.
func Marshal(name string, n *vdom.Node) ([]byte, error) {
	var buf bytes.Buffer
	switch FormatOf(name) {
	case FormatHTML:
		if err := render.NewRenderer(render.RendererConfig{}).RenderToWriter(&buf, n); err != nil {
			return nil, err
		}
	case FormatYAML:
		encode := EncodeYAML
		if strings.EqualFold(filepath.Ext(name), ".json") {
			encode = EncodeJSON
		}
		if err := encode(&buf, n); err != nil {
			return nil, err
		}
	case FormatBinary:
		return protocol.EncodeNode(n), nil
	default:
		return nil, unsupported(name)
	}
	return buf.Bytes(), nil
}

func unsupported(name string) error {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = "(none)"
	}
	return vterrors.New(vterrors.CodeUnsupportedInput).
		WithDetail(fmt.Sprintf("%s: extension %s is not a tree format.", name, ext)).
		WithSuggestion("Use .html, .yaml, .json or .vt")
}
