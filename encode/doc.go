// Package encode renders IR nodes as JSON or literal text.
//
// # Usage
//
//	node := ir.FromMap(map[string]*ir.Node{
//	    "name": ir.FromString("alice"),
//	    "ids":  ir.FromTuple([]*ir.Node{ir.FromInt(1), ir.FromInt(2)}),
//	})
//	// {'ids': (1, 2), 'name': 'alice'}
//	err := encode.Encode(node, w, encode.EncodeFormat(format.LiteralFormat))
//
//	// JSON with ', ' and ': ' separators and ascii escapes
//	err := encode.Encode(node, w, encode.EncodeFormat(format.JSONFormat))
//
// Literal output parses back to an equal tree with package parse. JSON
// output is only defined for the JSON types; bytes, complex numbers, sets
// and non string dict keys result in [ErrEncoding].
//
// # Related Packages
//
//   - github.com/signadot/go-packet/ir - IR representation
//   - github.com/signadot/go-packet/parse - Parse text to IR
package encode
