// Package errors provides structured, actionable error messages for vtree.
//
// Every failure a renderer, decoder, loader or store reports carries a
// registered code, a category, an optional input location and a hint.
//
// # Error Categories
//
// Errors are organized into categories:
//   - render: patch application failures (unsupported target, type mismatch)
//   - protocol: wire decoding failures (malformed frames, unknown patch kinds)
//   - input: tree files that cannot be read or parsed
//   - config: missing or invalid vtree.json
//   - storage: snapshot store failures
//
// # Error Codes
//
// Each error has a unique code (e.g., "R001") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New(errors.CodeParseFailed).
//	    WithLocation("trees/home.yaml", 4, 3).
//	    WithSuggestion("Children must be a list of nodes")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR I002: Failed to parse tree
//	//
//	//   trees/home.yaml:4:3
//	//
//	//     3 │ children:
//	//   → 4 │   tag: p
//	//       │   ^
//	//
//	//   Hint: Children must be a list of nodes
package errors
