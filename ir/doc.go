// Package ir holds the value tree shared by the JSON and literal encodings.
//
// A [Node] is one of the [Type] values. Dicts keep their keys in Fields and
// values in Values, index aligned; lists, tuples and sets keep their
// elements in Values. Integers have unbounded precision.
//
// Both wire encodings parse to and render from this tree, so type checks
// between a template and incoming data are made on [Type] values.
package ir
