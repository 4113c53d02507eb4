// Package rules provides reusable checks for validators.
//
// Each check inspects named fields of an [Object] and returns a
// [validate.Result], so a validator body can be as short as
//
//	return rules.Required(obj, "name", "email")
//
// Fields are looked up through the Object interface. [Map] implements it
// over decoded documents with dotted-path keys such as "owner.email".
package rules
