package validate

// Category identifies the items a validator runs over: either the root
// object itself or the items of a named provider.
type Category struct {
	name  string
	named bool
}

// Root is the category of the unexpanded root object.
var Root = Category{}

// Named returns the category served by the provider registered under name.
func Named(name string) Category {
	return Category{name: name, named: true}
}

// IsRoot reports whether c is the root category.
func (c Category) IsRoot() bool {
	return !c.named
}

// Name returns the provider name, or "" for the root category.
func (c Category) Name() string {
	return c.name
}

func (c Category) String() string {
	if c.IsRoot() {
		return "<root>"
	}
	return c.name
}
