package ruleset

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/pkg/fileutil"
)

// Check kinds.
const (
	CheckRequired    = "required"
	CheckForbidden   = "forbidden"
	CheckAnyRequired = "any_required"
	CheckNotAfter    = "not_after"
	CheckOneOf       = "one_of"
	CheckMatches     = "matches"
)

// ContextNow is the extra-context key not_after rules compare against.
const ContextNow = "now"

// Checks returns the supported check kinds.
func Checks() []string {
	return []string{CheckRequired, CheckForbidden, CheckAnyRequired, CheckNotAfter, CheckOneOf, CheckMatches}
}

// RuleSet is a parsed rule-set file.
type RuleSet struct {
	// Path is the file the rule set was loaded from.
	Path string `yaml:"-"`

	ValidationType string              `yaml:"validation_type"`
	Description    string              `yaml:"description"`
	Providers      map[string]Provider `yaml:"providers"`
	Rules          []Rule              `yaml:"rules"`
}

// Provider selects a list in the document for rules to run over.
type Provider struct {
	// Path is the dotted path of the list.
	Path string `yaml:"path"`
	// Description is a template for each item's description. {index} is the
	// item position; any other {key} is the item's field of that name.
	Description string `yaml:"description"`
}

// Rule is one declarative check.
type Rule struct {
	Name      string   `yaml:"name" json:"name,omitempty"`
	Level     string   `yaml:"level" json:"level,omitempty"`
	Of        string   `yaml:"of" json:"of,omitempty"`
	Check     string   `yaml:"check" json:"check,omitempty"`
	Fields    []string `yaml:"fields" json:"fields,omitempty"`
	Values    []string `yaml:"values" json:"values,omitempty"`
	Pattern   string   `yaml:"pattern" json:"pattern,omitempty"`
	AllowNone bool     `yaml:"allow_none" json:"allow_none,omitempty"`
	Requires  []string `yaml:"requires" json:"requires,omitempty"`
	Affects   string   `yaml:"affects" json:"affects,omitempty"`
	Message   string   `yaml:"message" json:"message,omitempty"`
}

// Parse decodes a rule set. Unknown keys are rejected.
func Parse(data []byte) (*RuleSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var rs RuleSet
	if err := dec.Decode(&rs); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Mark(errors.Wrap(err, "decoding rule set"), errors.ErrInvalidRuleSet)
	}
	return &rs, nil
}

// Load reads and parses the rule set at path.
func Load(path string) (*RuleSet, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rule set %s", path)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	rs.Path = path
	return rs, nil
}

// Resolve finds a rule set by path, or by name inside dir. A name matches
// "<name>.yaml" or "<name>.yml".
func Resolve(nameOrPath, dir string) (string, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return nameOrPath, nil
	}
	if dir != "" && !strings.ContainsRune(nameOrPath, os.PathSeparator) {
		for _, ext := range []string{".yaml", ".yml"} {
			p := filepath.Join(dir, nameOrPath+ext)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", errors.Wrapf(errors.ErrNotFound, "rule set %q", nameOrPath)
}

// Discover lists the rule-set files in dir, sorted by name. A missing
// directory holds no rule sets.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(found)
	return found, nil
}
