package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/greenplum-db/gp-common-go-libs/gplog"
	"github.com/pkg/errors"

	"github.com/tabulario/csvio/csv"
	"github.com/tabulario/csvio/options"
	"github.com/tabulario/csvio/utils"
)

/*
 * This file contains the conversion flow itself: open the source stream,
 * pump rows through a Reader/Writer pair, and move the finished output
 * into place.
 */

// DoConvert runs one conversion end to end.
func DoConvert() {
	source, bar, closeSource := openSource()
	defer closeSource()

	sink, finalize := openSink()

	reader, err := csv.NewReader(source, option.ReadSettings)
	gplog.FatalOnError(err)
	if delim := reader.FieldDelimiter(); utils.MustGetFlagBool(options.DETECT_DELIMITER) {
		gplog.Info("Detected field delimiter %q", string(delim))
		option.WriteSettings.FieldDelimiter = delim
	}

	writer, err := csv.NewWriter(sink, option.WriteSettings)
	gplog.FatalOnError(err)

	if header := reader.Header(); header != nil {
		err = writer.WriteRow(header)
		gplog.FatalOnError(err)
	}

	bar.Start()
	for {
		row, err := reader.ReadRow()
		if err == io.EOF {
			break
		}
		gplog.FatalOnError(err)
		gplog.FatalOnError(writer.WriteRow(row))
		rowsConverted++
	}
	gplog.FatalOnError(writer.EndFile())
	bar.Finish()

	finalize()
	gplog.Info("Converted %d row(s)", rowsConverted)
}

// openSource returns the decompressed input stream, a progress bar over it
// and a closer for everything it opened.
func openSource() (io.Reader, utils.ProgressBar, func()) {
	path := option.InputPath
	var file *os.File
	var total int64

	if path == "" || path == "-" {
		file = os.Stdin
	} else {
		f, err := os.Open(path)
		gplog.FatalOnError(err)
		if info, err := f.Stat(); err == nil {
			total = info.Size()
		}
		file = f
	}

	bar := newSourceProgressBar(total)
	counting := utils.NewCountingReader(file, bar)

	compressType, err := utils.ParseCompressType(option.InputCompression)
	gplog.FatalOnError(err)
	wrapped, err := utils.WrapReader(counting, compressType)
	gplog.FatalOnError(err)

	closer := func() {
		wrapped.Close()
		if file != os.Stdin {
			file.Close()
		}
	}
	return wrapped, bar, closer
}

func newSourceProgressBar(total int64) utils.ProgressBar {
	if total == 0 {
		return &utils.NoopProgressBar{}
	}
	showProgressBar := utils.PB_INFO
	if utils.MustGetFlagBool(options.VERBOSE) {
		showProgressBar = utils.PB_VERBOSE
	}
	if utils.MustGetFlagBool(options.QUIET) {
		showProgressBar = utils.PB_NONE
	}
	return utils.NewByteProgressBar(total, "Converting:", showProgressBar)
}

// openSink returns the compressed output sink and a finalizer that moves
// the temp file into place. File output goes through a session-named temp
// file so an aborted run never clobbers an existing output.
func openSink() (io.Writer, func()) {
	path := option.OutputPath

	if path == "" || path == "-" {
		compressType, err := utils.ParseCompressType(option.OutputCompression)
		gplog.FatalOnError(err)
		wrapped, err := utils.WrapWriter(os.Stdout, compressType)
		gplog.FatalOnError(err)
		return wrapped, func() {
			gplog.FatalOnError(wrapped.Close())
		}
	}

	tempOutputPath = fmt.Sprintf("%s.%s.tmp", path, sessionID)
	file, err := utils.OpenFileForWrite(tempOutputPath)
	gplog.FatalOnError(err)
	gplog.Verbose("Writing to temporary output %s", tempOutputPath)

	compressType, err := utils.ParseCompressType(option.OutputCompression)
	gplog.FatalOnError(err)
	wrapped, err := utils.WrapWriter(file, compressType)
	gplog.FatalOnError(err)

	return wrapped, func() {
		gplog.FatalOnError(wrapped.Close())
		gplog.FatalOnError(file.Sync())
		gplog.FatalOnError(file.Close())
		if err := os.Rename(tempOutputPath, path); err != nil {
			gplog.Fatal(errors.Wrap(err, "moving output into place"), "")
		}
		tempOutputPath = ""
	}
}
