// Command divedump downloads and decodes dive computer logs.
package main

import (
	"os"

	// Register the supported families.
	_ "github.com/arloliu/go-divelog/suunto/solution"
	_ "github.com/arloliu/go-divelog/uwatec/smart"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
