// Package validator provides small declarative validation rules.
//
// Each helper returns a Rule: a Check func plus the ValidationError reported
// when the check fails. Apply evaluates rules and aggregates failures into a
// ValidationErrors value, which implements error, so several field problems
// travel back in a single return.
//
//	err := validator.Apply(
//	    validator.Required("name", name),
//	    validator.Positive("base_price", basePrice),
//	    validator.Between("discount", discount, 0.0, 1.0),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // verrs.Map() gives field -> messages
//	}
//
// ValidationErrors survives wrapping with errors.Join or fmt.Errorf("%w"), so
// callers can detect it with IsValidationError anywhere up the stack.
package validator
