package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

// @title Portfolio API
// @version 1.0
// @description Preprint feed proxy, visit counter and site content for the portfolio.
// @BasePath /
func main() {
	os.Exit(execute(newRootCmd(), os.Stderr))
}

// execute runs cmd and reports a failure on w. Cobra's own error printing is
// silenced so usage text does not follow runtime errors.
func execute(cmd *cobra.Command, w io.Writer) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(w, "%s: %v\n", cmd.Name(), err)
		return 1
	}
	return 0
}
