package convert

import (
	"github.com/greenplum-db/gp-common-go-libs/gplog"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/tabulario/csvio/options"
	"github.com/tabulario/csvio/utils"
)

/*
 * This file contains functions related to validating user input.
 */

func validateFlagCombinations(flags *pflag.FlagSet) {
	validateQuoteFlags(flags)
	validateDelimiterFlags(flags)
	validateCompressionFlags(flags)
}

func validateQuoteFlags(flags *pflag.FlagSet) {
	if utils.MustGetFlagBool(options.NO_QUOTES) && flags.Changed(options.QUOTE) {
		gplog.Fatal(errors.Errorf("The following flags may not be specified together: no-quotes, quote"), "")
	}
	if utils.MustGetFlagBool(options.NO_QUOTES) && utils.MustGetFlagBool(options.FORCE_QUOTES) {
		gplog.Fatal(errors.Errorf("The following flags may not be specified together: no-quotes, force-quotes"), "")
	}
}

func validateDelimiterFlags(flags *pflag.FlagSet) {
	if utils.MustGetFlagBool(options.DETECT_DELIMITER) && flags.Changed(options.FIELD_DELIMITER) {
		gplog.Fatal(errors.Errorf("The following flags may not be specified together: detect-delimiter, field-delimiter"), "")
	}
}

func validateCompressionFlags(flags *pflag.FlagSet) {
	for _, flag := range []string{options.COMPRESSION, options.DEST_COMPRESSION} {
		if !options.ValidCompression(utils.MustGetFlagString(flag)) {
			gplog.Fatal(errors.Errorf("--%s must be one of: none, gzip, snappy, zstd", flag), "")
		}
	}
}
