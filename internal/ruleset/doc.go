// Package ruleset compiles declarative YAML rule sets into validation suites.
//
// A rule set names the lists inside a document that rules can run over
// (providers) and the rules themselves:
//
//	validation_type: intake
//	providers:
//	  children:
//	    path: children
//	    description: "Child {index}: {name}"
//	rules:
//	  - name: name_required
//	    check: required
//	    fields: [name, email]
//	  - name: child_born_in_past
//	    of: children
//	    check: not_after
//	    fields: [born]
//	    allow_none: true
//	  - name: status_known
//	    level: WARN
//	    check: one_of
//	    fields: [status]
//	    values: [active, retired]
//
// [Check] validates a rule set with the engine and [Build] turns a valid
// one into a suite and providers for validate.Validate.
package ruleset
