// Package validate runs declarative validators over an object and the
// sub-objects its providers expand it into.
//
// A [Validator] is a pure function plus immutable metadata: the provider
// [Category] it runs over, the extra-context keys it requires, and an
// optional affects tag copied into every finding it produces. Validators
// return a [Result] and never touch the ledger; the normalizer turns results
// into ledger records.
//
// # Basic Usage
//
//	childRequired := validate.New("child_name_required",
//		validate.Check(func(c *Child, _ validate.Args) validate.Result {
//			if c.Name == "" {
//				return validate.FieldErrors(validate.Field("name", "is required"))
//			}
//			return nil
//		}),
//		validate.Of("children"),
//	)
//
//	suite := validate.NewSuite()
//	if err := suite.Register(ledger.LevelError, childRequired); err != nil {
//		return err
//	}
//
//	providers := validate.Providers{
//		"children": validate.Each(func(p *Parent) []*Child { return p.Children },
//			func(i int, _ *Child) validate.Fields {
//				return validate.Fields{"description": fmt.Sprintf("Child %d", i)}
//			}),
//	}
//
//	l, err := validate.Validate(parent, suite, providers)
//
// # Errors
//
// Wiring problems (a missing provider, a missing context key, a result the
// normalizer cannot interpret) abort the run and are returned as errors.
// Data problems are always ledger records.
//
// # Caching
//
// Each provider is evaluated at most once per [Validate] call, no matter how
// many validators share its category. The cache is discarded when the call
// returns.
package validate
