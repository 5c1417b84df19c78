package main

import (
	"fmt"
	"io"

	"pilotcast/internal/services"
)

// printError reports a failed command with its category and the operator
// hint for that category.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	category := services.Category(err)
	if category == "" || category == "unknown" {
		return
	}
	fmt.Fprintf(w, "Category: %s\n", category)
	fmt.Fprintf(w, "Hint: %s\n", services.Hint(err))
}
