// Command ledgerctl reconciles parcel delivery records from JSON files
// without a database, for spot checks and offline statements.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
