// Command prepctl runs the interview-prep pipeline and index maintenance from
// the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prepctl",
	Short: "Interview Prep operator tool",
	Long:  "prepctl extracts document text, generates interview questions, and rebuilds the semantic question index.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
