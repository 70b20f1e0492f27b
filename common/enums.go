// Package common keeps enums shared between configuration, the core and the
// command line.
package common

//go:generate go tool go-enum --marshal --names

// Specification of requested output type.
// ENUM(props, scss, js)
type OutputFmt int

// ForStructure reports whether tokens are rendered as a structured object
// rather than as part of the stylesheet.
func (o OutputFmt) ForStructure() bool {
	return o == OutputFmtJs
}
