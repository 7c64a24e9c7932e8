package convert

import (
	"github.com/tabulario/csvio/options"
)

/*
 * This file contains global variables and setter functions for those
 * variables used in testing.
 */

var (
	option          *options.Options
	timestamp       string
	sessionID       string
	applicationName string

	rowsConverted int

	tempOutputPath string
)

func SetOption(o *options.Options) {
	option = o
}
