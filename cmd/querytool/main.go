// Command querytool translates free-text property queries offline and prints
// the resulting predicate, optionally compiled to SQL.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
