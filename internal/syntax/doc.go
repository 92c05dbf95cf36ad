// Package syntax holds the read-only tree produced by the external C# tree
// producer: nodes, tokens and their attached trivia.
//
// Trees carry no parent pointers. Code that needs ancestors receives them as
// an explicit Parents chain, so a single tree can be shared by any number of
// concurrent readers.
//
// Token.Text is the exact source slice of the token. Concatenating leading
// trivia, text and trailing trivia of every token in document order yields the
// original file (see SourceText).
package syntax
