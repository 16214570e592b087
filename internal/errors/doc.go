// Package errors provides structured, coded errors for hashroute's edges:
// configuration files, HTTP and WebSocket messages, and the CLI.
//
// The navigation core never fails; these errors only describe input that
// arrives from outside before it reaches the core.
//
// # Error Categories
//
//   - config: hashroute.json cannot be read, parsed or validated
//   - protocol: a WebSocket message is malformed
//   - validation: an HTTP request body is invalid
//   - cli: a command-line argument is invalid
//
// # Error Codes
//
// Each error has a unique code (e.g., "E100") that maps to a short message,
// a detailed explanation and a category.
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`log.level "loud" is not one of debug, info, warn, error`).
//	    WithSuggestion(`Set "log": {"level": "info"}`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Invalid configuration value
//	//
//	//   log.level "loud" is not one of debug, info, warn, error
//	//
//	//   Hint: Set "log": {"level": "info"}
package errors
