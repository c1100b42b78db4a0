// Package token provides tokenization of JSON and restricted literal text.
//
// [Tokenize] turns a document into a flat token sequence. String and bytes
// literals are decoded while tokenizing, so a [TString] or [TBytes] token
// carries its value rather than its source text. Number tokens carry their
// source text and are converted by package parse.
package token
