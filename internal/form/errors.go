// Package form implements the validation forms of the developer submission
// workflow. Forms collect field-scoped errors for re-display and never
// persist anything themselves; saving is done by the services once a form
// validated cleanly.
package form

// Errors maps field names to user-facing validation messages.
type Errors map[string][]string

// Add appends a message to a field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// On returns the messages collected for a field.
func (e Errors) On(field string) []string {
	return e[field]
}

// Empty reports whether no field has errors.
func (e Errors) Empty() bool {
	return len(e) == 0
}
