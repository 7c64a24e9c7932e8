package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tabulario/csvio/convert"
	"github.com/tabulario/csvio/utils"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "csvio",
		Short:   "csvio utility for converting CSV streams between dialects, encodings and compression formats",
		Args:    cobra.NoArgs,
		Version: convert.GetVersion(),
		Run: func(cmd *cobra.Command, args []string) {
			defer convert.DoTeardown()
			convert.DoFlagValidation(cmd)
			convert.DoSetup()
			convert.DoConvert()
		}}
	rootCmd.SetArgs(utils.HandleSingleDashes(os.Args[1:]))
	convert.DoInit(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
