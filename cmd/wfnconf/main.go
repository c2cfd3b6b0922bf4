// cmd/wfnconf/main.go
package main

import (
	"os"

	"github.com/arc-language/wfnconf/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
