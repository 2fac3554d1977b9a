package tack

import "strconv"

// Value is a runtime value bound in a module namespace.
type Value interface {
	// TypeName identifies the kind of value ("string", "number", "module").
	TypeName() string
	// String renders the value for display.
	String() string
}

// StringValue is a string value.
type StringValue string

func (v StringValue) TypeName() string { return "string" }
func (v StringValue) String() string   { return string(v) }

// NumberValue is an integer value.
type NumberValue int64

func (v NumberValue) TypeName() string { return "number" }
func (v NumberValue) String() string   { return strconv.FormatInt(int64(v), 10) }
