// Package errors provides coded, actionable error messages for the guise
// CLI.
//
// Each code (e.g., "G100") maps to a category, a short message and a longer
// detail. Callers add a suggestion and wrap the underlying cause:
//
//	err := errors.New(errors.ConfigNotFound).
//	    WithSuggestion("Create guise.json or pass --config")
//
//	errors.Print(os.Stderr, err)
//	// ERROR G100: Configuration file not found
//	//
//	//   Neither guise.json nor guise.yaml exists in the project directory.
//	//
//	//   Hint: Create guise.json or pass --config
package errors
