// Package gomap maps Go objects onto attribute maps and back.
//
// An object is either a struct, whose exported fields are its attributes,
// or a map[string]any, whose sorted keys are. [Serialize] walks the
// attributes of an object and produces a dict node; [Validate] checks a
// dict node against a template object without touching it and [Apply]
// assigns it.
//
// Each value found while walking is classified from the template alone:
//
//  1. reducible, when its type has a reducer in the [Registry]
//  2. primitive, when its value type is allowed by the codec
//  3. nested object, when it is a struct or a non-nil pointer to one
//  4. otherwise not serializable
//
// Reducible values are written as the sequence
// [args, state, items, dict_items] with trailing absent parts dropped, and
// are rebuilt on load by the registered constructor.
package gomap
