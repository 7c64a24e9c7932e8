package convert

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/greenplum-db/gp-common-go-libs/gplog"
	uuid "github.com/satori/go.uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tabulario/csvio/options"
	"github.com/tabulario/csvio/utils"
)

/*
 * We define and initialize flags separately to avoid import conflicts in
 * tests. The flag variables, and setter functions for them, are in
 * variable.go.
 */

func initializeFlags(cmd *cobra.Command) {
	SetFlagDefaults(cmd.Flags())
	utils.CmdFlags = cmd.Flags()
}

func SetFlagDefaults(flagSet *pflag.FlagSet) {
	flagSet.String(options.INPUT, "", "Input file to read ('-' or empty for stdin)")
	flagSet.String(options.OUTPUT, "", "Output file to write ('-' or empty for stdout)")
	flagSet.String(options.FIELD_DELIMITER, ",", "Field delimiter of the input (escapes like \\t are accepted)")
	flagSet.String(options.ROW_DELIMITER, `\n`, "Row delimiter of the input")
	flagSet.String(options.QUOTE, `"`, "Quote character of the input")
	flagSet.Bool(options.NO_QUOTES, false, "Disable quoted fields entirely")
	flagSet.Bool(options.FORCE_QUOTES, false, "Quote every output field, needed or not")
	flagSet.Bool(options.HEADER, false, "Treat the first row as a header")
	flagSet.String(options.TRIM_CHARS, "", "Characters trimmed from the edges of every field")
	flagSet.String(options.COMMENT, "", "Character starting a line comment")
	flagSet.String(options.ENCODING, "", "Text encoding of the input (default: infer from BOM, then utf-8)")
	flagSet.String(options.BOM, "convention", "Byte Order Mark policy for the output: convention, always or never")
	flagSet.Bool(options.DETECT_DELIMITER, false, "Detect the input field delimiter from a sample")
	flagSet.Bool(options.IGNORE_EXTRA_DELIMITER, false, "Tolerate one extra trailing delimiter per row")
	flagSet.Bool(options.PRESAMPLE, false, "Load the whole input into memory before parsing")
	flagSet.String(options.DEST_FIELD_DELIMITER, "", "Field delimiter of the output (default: same as input)")
	flagSet.String(options.DEST_ROW_DELIMITER, "", "Row delimiter of the output (default: same as input)")
	flagSet.String(options.DEST_ENCODING, "", "Text encoding of the output (default: utf-8)")
	flagSet.String(options.COMPRESSION, "none", "Input compression: none, gzip, snappy or zstd")
	flagSet.String(options.DEST_COMPRESSION, "none", "Output compression: none, gzip, snappy or zstd")
	flagSet.String(options.DIALECT_FILE, "", "YAML dialect file describing the input")
	flagSet.Bool(options.QUIET, false, "Suppress non-warning, non-error log messages")
	flagSet.Bool(options.DEBUG, false, "Print debug log messages")
	flagSet.Bool(options.VERBOSE, false, "Print verbose log messages")
	flagSet.Bool("help", false, "Print help info and exit")
	flagSet.Bool("version", false, "Print version number and exit")
}

// This function handles setup that can be done before parsing flags.
func DoInit(cmd *cobra.Command) {
	timestamp = utils.CurrentTimestamp()
	sessionID = uuid.NewV4().String()
	applicationName = "csvio_" + timestamp

	gplog.SetLogFileNameFunc(logFileName)
	gplog.InitializeLogging("csvio", "")

	utils.CleanupGroup = &sync.WaitGroup{}
	utils.CleanupGroup.Add(1)
	initializeFlags(cmd)
	utils.InitializeSignalHandler(DoCleanup, "conversion process", &utils.WasTerminated)
}

func logFileName(program, logdir string) string {
	return fmt.Sprintf("%v/%v.log", logdir, applicationName)
}

func DoFlagValidation(cmd *cobra.Command) {
	validateFlagCombinations(cmd.Flags())
}

// This function handles setup that must be done after parsing flags.
func DoSetup() {
	var err error

	SetLoggerVerbosity()

	gplog.Debug("I'm called with: [%s]", strings.Join(os.Args, " "))
	gplog.Info("Starting conversion...")
	gplog.Info("Conversion timestamp = %s", timestamp)
	gplog.Verbose("Conversion session = %s", sessionID)

	option, err = options.NewOptions(utils.CmdFlags)
	gplog.FatalOnError(err)
}

func SetLoggerVerbosity() {
	if utils.MustGetFlagBool(options.QUIET) {
		gplog.SetVerbosity(gplog.LOGERROR)
	} else if utils.MustGetFlagBool(options.DEBUG) {
		gplog.SetVerbosity(gplog.LOGDEBUG)
	} else if utils.MustGetFlagBool(options.VERBOSE) {
		gplog.SetVerbosity(gplog.LOGVERBOSE)
	}
}

func GetVersion() string {
	return utils.Version
}

func DoTeardown() {
	failed := false
	defer func() {
		DoCleanup(failed)

		errorCode := gplog.GetErrorCode()
		if errorCode == 0 {
			gplog.Info("Conversion completed successfully")
		}
		os.Exit(errorCode)
	}()

	errStr := ""
	if err := recover(); err != nil {
		// gplog's Fatal will cause a panic with error code 2
		if gplog.GetErrorCode() != 2 {
			gplog.Error(fmt.Sprintf("%v: %s", err, debug.Stack()))
			gplog.SetErrorCode(2)
		} else {
			errStr = fmt.Sprintf("%v", err)
		}
		failed = true
	}

	if utils.WasTerminated {
		/*
		 * Don't print an error if the conversion was canceled, as the
		 * signal handler will take care of cleanup and return codes.
		 * Just wait until the signal handler's DoCleanup completes so
		 * the main goroutine doesn't exit while cleanup is still in
		 * progress.
		 */
		utils.CleanupGroup.Wait()
		failed = true
		return
	}

	if errStr != "" {
		fmt.Println(errStr)
	}
}

func DoCleanup(failed bool) {
	defer func() {
		if err := recover(); err != nil {
			gplog.Warn("Encountered error during cleanup: %v", err)
		}
		gplog.Verbose("Cleanup complete")
		utils.CleanupGroup.Done()
	}()

	gplog.Verbose("Beginning cleanup")

	if tempOutputPath != "" {
		// An aborted run must not leave a half-written output behind.
		if err := os.Remove(tempOutputPath); err == nil {
			gplog.Verbose("Removed partial output %s", tempOutputPath)
		}
		tempOutputPath = ""
	}
}
