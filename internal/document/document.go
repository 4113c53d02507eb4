// Package document loads the files lidator validates.
package document

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/pkg/fileutil"
	"github.com/thoreinstein/lidator/pkg/frontmatter"
	"github.com/thoreinstein/lidator/pkg/rules"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

var extensions = map[string]Format{
	".yaml":     FormatYAML,
	".yml":      FormatYAML,
	".json":     FormatJSON,
	".toml":     FormatTOML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatYAML, FormatJSON, FormatTOML, FormatMarkdown}
}

// ParseFormat validates a format name. "yml" and "md" are accepted.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTOML, FormatMarkdown:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", s)
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedFormat, "cannot infer format of %q", path)
}

// Document is a decoded file.
type Document struct {
	// Path is where the document was read from, or "-" for stdin.
	Path string
	// Format is the encoding it was decoded from.
	Format Format
	// Data is the top-level mapping. For Markdown it is the frontmatter.
	Data rules.Map
	// Body is the Markdown text after the frontmatter.
	Body string
}

// Load reads and decodes path. An empty format is inferred from the
// extension; reading stdin ("-") requires one.
func Load(path string, format Format, stdin io.Reader) (*Document, error) {
	if format == "" {
		f, err := FormatOf(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	data, err := fileutil.ReadInput(path, stdin)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	doc, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	doc.Path = path
	return doc, nil
}

// Decode parses data in the given format. The top level must be a mapping.
func Decode(data []byte, format Format) (*Document, error) {
	doc := &Document{Format: format}
	m := map[string]any{}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatJSON:
		err = json.Unmarshal(data, &m)
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	case FormatMarkdown:
		var body []byte
		body, err = frontmatter.MustParse(bytes.NewReader(data), &m)
		doc.Body = string(body)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidDocument)
	}

	if m == nil {
		m = map[string]any{}
	}
	doc.Data = rules.Map(m)
	return doc, nil
}
