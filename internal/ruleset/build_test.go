package ruleset

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/pkg/ledger"
	"github.com/thoreinstein/lidator/pkg/rules"
	"github.com/thoreinstein/lidator/pkg/validate"
)

var now = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func run(t *testing.T, rs *RuleSet, doc rules.Map, opts ...validate.RunOption) *ledger.Ledger {
	t.Helper()
	suite, providers, err := Build(rs)
	require.NoError(t, err)

	opts = append([]validate.RunOption{
		validate.WithExtraContext(map[string]any{ContextNow: now}),
		validate.WithValidationType(rs.ValidationType),
	}, opts...)
	l, err := validate.Validate(doc, suite, providers, opts...)
	require.NoError(t, err)
	return l
}

func TestBuild_RejectsInvalidRuleSet(t *testing.T) {
	_, _, err := Build(&RuleSet{Rules: []Rule{{Name: "x", Check: "nope", Fields: []string{"a"}}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, lerrors.ErrInvalidRuleSet))
	assert.Contains(t, err.Error(), "Must be one of")
}

func TestBuild_Intake(t *testing.T) {
	rs, err := Parse([]byte(intakeRules))
	require.NoError(t, err)

	doc := rules.Map{
		"status": "unknown",
		"children": []any{
			map[string]any{"name": "Ada"},
			map[string]any{"age": 3},
		},
	}
	l := run(t, rs, doc)

	assert.False(t, l.IsValid())
	assert.Equal(t, []string{
		"ERROR (no description) Name: This field is required. field=name, validation_type=intake, verbose_name=Name",
		"ERROR Child 2: Name: This field is required. field=name, validation_type=intake, verbose_name=Name",
		"WARN (no description) Status: Must be one of: active, retired. field=status, validation_type=intake, verbose_name=Status",
	}, formatted(l))
}

func TestBuild_Checks(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		doc  rules.Map
		want []string
	}{
		{
			name: "forbidden",
			rule: Rule{Check: CheckForbidden, Fields: []string{"legacy_id"}},
			doc:  rules.Map{"legacy_id": 4},
			want: []string{"This field must be empty."},
		},
		{
			name: "any required",
			rule: Rule{Check: CheckAnyRequired, Fields: []string{"phone", "email"}},
			doc:  rules.Map{},
			want: []string{"At least one of these fields is required."},
		},
		{
			name: "any required satisfied",
			rule: Rule{Check: CheckAnyRequired, Fields: []string{"phone", "email"}},
			doc:  rules.Map{"email": "a@b"},
		},
		{
			name: "not after",
			rule: Rule{Check: CheckNotAfter, Fields: []string{"born", "joined"}},
			doc:  rules.Map{"born": "2030-01-01", "joined": "2020-01-01"},
			want: []string{"This date cannot be in the future."},
		},
		{
			name: "not after allow none",
			rule: Rule{Check: CheckNotAfter, Fields: []string{"born"}, AllowNone: true},
			doc:  rules.Map{},
		},
		{
			name: "matches nested",
			rule: Rule{Check: CheckMatches, Fields: []string{"owner.email"}, Pattern: "^[^@]+@[^@]+$"},
			doc:  rules.Map{"owner": map[string]any{"email": "nobody"}},
			want: []string{"Does not match the pattern ^[^@]+@[^@]+$."},
		},
		{
			name: "message override",
			rule: Rule{Check: CheckRequired, Fields: []string{"a", "b"}, Message: "needed for billing"},
			doc:  rules.Map{},
			want: []string{"needed for billing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rule.Name = "rule"
			l := run(t, &RuleSet{ValidationType: "t", Rules: []Rule{tt.rule}}, tt.doc,
				validate.WithFieldNameInMessage(false))
			assert.Equal(t, tt.want, l.ErrorMessages())
			assert.Equal(t, len(tt.want) == 0, l.IsValid())
		})
	}
}

func TestBuild_AffectsAndRequires(t *testing.T) {
	rs := &RuleSet{
		ValidationType: "t",
		Rules: []Rule{
			{Name: "email", Check: CheckRequired, Fields: []string{"email"}, Affects: "contact"},
			{Name: "gated", Check: CheckRequired, Fields: []string{"x"}, Requires: []string{"tenant"}},
		},
	}
	suite, providers, err := Build(rs)
	require.NoError(t, err)

	_, err = validate.Validate(rules.Map{}, suite, providers,
		validate.WithExtraContext(map[string]any{ContextNow: now}))
	var ctxErr *validate.ContextNotAvailableError
	require.ErrorAs(t, err, &ctxErr)
	assert.Equal(t, "tenant", ctxErr.Key)

	l, err := validate.Validate(rules.Map{}, suite, providers,
		validate.WithExtraContext(map[string]any{"tenant": "acme"}))
	require.NoError(t, err)
	recs := l.Errors(false)
	require.Len(t, recs, 2)
	assert.Equal(t, "contact", recs[0].Extra[ledger.KeyAffects])
}

func TestBuild_ScalarList(t *testing.T) {
	rs := &RuleSet{
		ValidationType: "t",
		Providers:      map[string]Provider{"tags": {Path: "meta.tags", Description: "Tag {index}"}},
		Rules: []Rule{
			{Name: "tag_known", Of: "tags", Check: CheckOneOf, Fields: []string{"value"}, Values: []string{"a", "b"}},
		},
	}
	l := run(t, rs, rules.Map{"meta": map[string]any{"tags": []any{"a", "z"}}})

	recs := l.Errors(false)
	require.Len(t, recs, 1)
	desc, _ := recs[0].Description()
	assert.Equal(t, "Tag 2", desc)
}

func TestBuild_MissingListProvidesNothing(t *testing.T) {
	rs, err := Parse([]byte(intakeRules))
	require.NoError(t, err)

	l := run(t, rs, rules.Map{"name": "x", "status": "active"})
	assert.True(t, l.IsValid())
	assert.Equal(t, 0, l.Len())
}

func TestBuild_NonListPath(t *testing.T) {
	rs, err := Parse([]byte(intakeRules))
	require.NoError(t, err)
	suite, providers, err := Build(rs)
	require.NoError(t, err)

	_, err = validate.Validate(rules.Map{"name": "x", "children": "none"}, suite, providers,
		validate.WithExtraContext(map[string]any{ContextNow: now}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, lerrors.ErrInvalidDocument))
}

func TestDescribe(t *testing.T) {
	item := rules.Map{"name": "Ada", "owner": map[string]any{"id": 7}}
	assert.Equal(t, "Child 3: Ada (7)", describe("Child {index}: {name} ({owner.id})", 2, item))
	assert.Equal(t, "Child :", describe("Child {missing}: ", 0, item))
}

func formatted(l *ledger.Ledger) []string {
	recs := l.FullResults()
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = ledger.FormatRecord(r)
	}
	return out
}
