package ruleset

import (
	"fmt"
	"iter"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/pkg/ledger"
	"github.com/thoreinstein/lidator/pkg/rules"
	"github.com/thoreinstein/lidator/pkg/validate"
)

// Categories of a rule set.
const (
	categoryRules     = "rules"
	categoryProviders = "providers"
)

// ruleItem is a rule together with the set it belongs to.
type ruleItem struct {
	Rule
	set *RuleSet
}

// Lookup implements rules.Object over the rule's YAML keys. Empty values
// count as unset.
func (r ruleItem) Lookup(field string) (any, bool) {
	var v any
	switch field {
	case "name":
		v = nonEmpty(r.Name)
	case "level":
		v = nonEmpty(r.Level)
	case "of":
		v = nonEmpty(r.Of)
	case "check":
		v = nonEmpty(r.Check)
	case "fields":
		v = nonEmptyList(r.Fields)
	case "values":
		v = nonEmptyList(r.Values)
	case "pattern":
		v = nonEmpty(r.Pattern)
	case "message":
		v = nonEmpty(r.Message)
	default:
		return nil, false
	}
	return v, v != nil
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonEmptyList(s []string) any {
	if len(s) == 0 {
		return nil
	}
	return s
}

type providerItem struct {
	name string
	Provider
	used bool
}

var (
	checkValidationType = validate.New("ruleset_validation_type", validate.Check(func(rs *RuleSet, _ validate.Args) validate.Result {
		if strings.TrimSpace(rs.ValidationType) == "" {
			return validate.FieldErrors(validate.Field("validation_type", "should name what this rule set validates"))
		}
		return nil
	}))

	checkHasRules = validate.New("ruleset_has_rules", validate.Check(func(rs *RuleSet, _ validate.Args) validate.Result {
		if len(rs.Rules) == 0 {
			return validate.Message("rule set defines no rules")
		}
		return nil
	}))

	checkUniqueNames = validate.New("ruleset_unique_names", validate.Check(func(rs *RuleSet, _ validate.Args) validate.Result {
		count := make(map[string]int, len(rs.Rules))
		for _, r := range rs.Rules {
			if r.Name != "" {
				count[r.Name]++
			}
		}
		var msgs []string
		for _, name := range slices.Sorted(maps.Keys(count)) {
			if count[name] > 1 {
				msgs = append(msgs, fmt.Sprintf("rule name %q is used %d times", name, count[name]))
			}
		}
		return validate.Messages(msgs...)
	}))

	checkRuleShape = validate.New("rule_required_keys", validate.Check(func(r ruleItem, _ validate.Args) validate.Result {
		return rules.Required(r, "name", "check", "fields")
	}), validate.Of(categoryRules))

	checkRuleKind = validate.New("rule_check_known", validate.Check(func(r ruleItem, _ validate.Args) validate.Result {
		return rules.OneOf(r, "check", Checks()...)
	}), validate.Of(categoryRules))

	checkRuleLevel = validate.New("rule_level_known", validate.Check(func(r ruleItem, _ validate.Args) validate.Result {
		if r.Level == "" {
			return nil
		}
		if _, err := ledger.ParseLevel(r.Level); err != nil {
			return validate.FieldErrors(validate.Field("level", fmt.Sprintf("unknown level %q, use ERROR or WARN", r.Level)))
		}
		return nil
	}), validate.Of(categoryRules))

	checkRuleProvider = validate.New("rule_provider_known", validate.Check(func(r ruleItem, _ validate.Args) validate.Result {
		if r.Of == "" {
			return nil
		}
		if _, ok := r.set.Providers[r.Of]; !ok {
			return validate.FieldErrors(validate.Field("of", fmt.Sprintf("no provider named %q", r.Of)))
		}
		return nil
	}), validate.Of(categoryRules))

	checkRuleOptions = validate.New("rule_check_options", validate.Check(func(r ruleItem, _ validate.Args) validate.Result {
		var errs []validate.FieldError
		switch r.Check {
		case CheckOneOf:
			if len(r.Values) == 0 {
				errs = append(errs, validate.Field("values", "one_of needs at least one value"))
			}
		case CheckMatches:
			if r.Pattern == "" {
				errs = append(errs, validate.Field("pattern", "matches needs a pattern"))
			} else if _, err := regexp.Compile(r.Pattern); err != nil {
				errs = append(errs, validate.Field("pattern", err.Error()))
			}
		}
		return validate.FieldErrors(errs...)
	}), validate.Of(categoryRules))

	checkRuleIgnored = validate.New("rule_ignored_options", validate.Check(func(r ruleItem, _ validate.Args) validate.Result {
		var errs []validate.FieldError
		if len(r.Values) > 0 && r.Check != CheckOneOf && slices.Contains(Checks(), r.Check) {
			errs = append(errs, validate.Field("values", "is ignored by "+r.Check))
		}
		if r.Pattern != "" && r.Check != CheckMatches && slices.Contains(Checks(), r.Check) {
			errs = append(errs, validate.Field("pattern", "is ignored by "+r.Check))
		}
		if r.AllowNone && r.Check != CheckNotAfter {
			errs = append(errs, validate.Field("allow_none", "only applies to not_after"))
		}
		return validate.FieldErrors(errs...)
	}), validate.Of(categoryRules))

	checkProviderPath = validate.New("provider_path_required", validate.Check(func(p *providerItem, _ validate.Args) validate.Result {
		if p.Path == "" {
			return validate.FieldErrors(validate.Field("path", rules.MsgFieldRequired))
		}
		return nil
	}), validate.Of(categoryProviders))

	checkProviderUsed = validate.New("provider_used", validate.Check(func(p *providerItem, _ validate.Args) validate.Result {
		if !p.used {
			return validate.Messagef("provider %q is not used by any rule", p.name)
		}
		return nil
	}), validate.Of(categoryProviders))

	checkSuite = validate.NewSuite().
		MustRegister(ledger.LevelError,
			checkHasRules, checkUniqueNames, checkRuleShape, checkRuleKind,
			checkRuleLevel, checkRuleProvider, checkRuleOptions, checkProviderPath,
		).
		MustRegister(ledger.LevelWarn, checkValidationType, checkRuleIgnored, checkProviderUsed)

	checkProviders = validate.Providers{
		categoryRules: validate.Expand(func(rs *RuleSet) iter.Seq2[any, validate.Fields] {
			return func(yield func(any, validate.Fields) bool) {
				for i, r := range rs.Rules {
					desc := fmt.Sprintf("Rule %d", i+1)
					if r.Name != "" {
						desc += ": " + r.Name
					}
					if !yield(ruleItem{Rule: r, set: rs}, validate.Fields{ledger.KeyDescription: desc}) {
						return
					}
				}
			}
		}),
		categoryProviders: validate.Expand(func(rs *RuleSet) iter.Seq2[any, validate.Fields] {
			return func(yield func(any, validate.Fields) bool) {
				for _, name := range slices.Sorted(maps.Keys(rs.Providers)) {
					p := &providerItem{name: name, Provider: rs.Providers[name]}
					p.used = slices.ContainsFunc(rs.Rules, func(r Rule) bool { return r.Of == name })
					if !yield(p, validate.Fields{ledger.KeyDescription: "Provider " + name}) {
						return
					}
				}
			}
		}),
	}
)

// keyName shows rule-set keys as they are written in the file.
func keyName(_ any, field string) (string, bool) {
	return field, true
}

// Check validates the rule set itself. Errors make it unusable; warnings
// point at parts that have no effect.
func Check(rs *RuleSet) (*ledger.Ledger, error) {
	if rs == nil {
		return nil, errors.Wrap(errors.ErrInvalidRuleSet, "rule set is nil")
	}
	return validate.Validate(rs, checkSuite, checkProviders,
		validate.WithFieldNameMapper(keyName),
		validate.WithValidationType("ruleset"),
	)
}
