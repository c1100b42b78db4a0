// Package parse parses JSON and restricted literal text into IR nodes.
//
// # Usage
//
//	// Parse literal text
//	node, err := parse.Parse([]byte(`{'name': 'alice', 'ids': (1, 2)}`))
//
//	// Parse JSON
//	node, err := parse.Parse(data, parse.ParseJSON())
//
//	// Evaluate literal text to Go values
//	v, err := parse.Eval(`{1, 2, 3}`)
//
// The literal grammar is data only: it has no names other than None,
// True, False, inf and nan, no operators other than signs and the
// real+imaginary form of complex numbers, and a single call form, set().
// Input it does not accept results in an error wrapping [ErrMalformed].
//
// # Related Packages
//
//   - github.com/signadot/go-packet/ir - IR representation
//   - github.com/signadot/go-packet/encode - Encode IR to text
//   - github.com/signadot/go-packet/token - Tokenization
package parse
