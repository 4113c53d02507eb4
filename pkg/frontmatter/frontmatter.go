package frontmatter

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontmatter is returned by MustParse when no frontmatter is found.
	ErrMissingFrontmatter = errors.New("missing frontmatter")

	// ErrUnclosedFrontmatter indicates an opening delimiter without a closing one.
	ErrUnclosedFrontmatter = errors.New("missing closing frontmatter delimiter")

	// ErrInvalidYAML indicates the frontmatter block is not valid YAML.
	ErrInvalidYAML = errors.New("invalid frontmatter YAML")
)

// Split separates content into its frontmatter block and body. found is
// false when content does not open with a delimiter line.
func Split(content []byte) (header, body []byte, found bool, err error) {
	first, rest, _ := cutLine(content)
	if !isOpen(first) {
		return nil, content, false, nil
	}

	start := len(content) - len(rest)
	offset := start
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if isClose(line) {
			return content[start:offset], next, true, nil
		}
		offset += len(rest) - len(next)
		rest = next
	}
	return nil, nil, true, ErrUnclosedFrontmatter
}

// Parse decodes the frontmatter of r into matter and returns the body.
// Content without frontmatter is returned whole and matter is left as is.
func Parse[T any](r io.Reader, matter *T) ([]byte, error) {
	return parse(r, matter, false)
}

// MustParse is like Parse but fails with ErrMissingFrontmatter when the
// content has no frontmatter.
func MustParse[T any](r io.Reader, matter *T) ([]byte, error) {
	return parse(r, matter, true)
}

func parse[T any](r io.Reader, matter *T, required bool) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading frontmatter")
	}

	header, body, found, err := Split(content)
	if err != nil {
		return nil, err
	}
	if !found {
		if required {
			return nil, ErrMissingFrontmatter
		}
		return body, nil
	}

	if err := yaml.Unmarshal(header, matter); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding frontmatter"), ErrInvalidYAML)
	}
	return body, nil
}

// cutLine returns the first line of b without its line ending, and the
// remainder after it. ok is false when b holds no line ending.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	line, rest, ok = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, ok
}

func isOpen(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == "---"
}

func isClose(line []byte) bool {
	l := string(bytes.TrimRight(line, " \t"))
	return l == "---" || l == "..."
}
