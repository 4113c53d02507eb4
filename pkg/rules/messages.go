package rules

// Messages reported by the checks in this package.
const (
	MsgFieldRequired    = "This field is required."
	MsgFieldMustBeEmpty = "This field must be empty."
	MsgAnyFieldRequired = "At least one of these fields is required."
	MsgDateInFuture     = "This date cannot be in the future."
	MsgInvalidDate      = "Enter a valid date."
	MsgNotAllowed       = "Must be one of: %s."
	MsgNoMatch          = "Does not match the pattern %s."
	MsgNotText          = "Must be text."
)
