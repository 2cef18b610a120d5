// Package log is the node wide key/value logger.
package log

import (
	"gopkg.in/inconshreveable/log15.v2"
	"gopkg.in/inconshreveable/log15.v2/term"
	"io"
	"os"
)

type (
	Logger  = log15.Logger
	Handler = log15.Handler
	Format  = log15.Format
	Lvl     = log15.Lvl
)

const (
	LvlCrit  = log15.LvlCrit
	LvlError = log15.LvlError
	LvlWarn  = log15.LvlWarn
	LvlInfo  = log15.LvlInfo
	LvlDebug = log15.LvlDebug
)

var (
	LvlFilterHandler = log15.LvlFilterHandler
	StreamHandler    = log15.StreamHandler
	DiscardHandler   = log15.DiscardHandler
	LogfmtFormat     = log15.LogfmtFormat
	TerminalFormat   = log15.TerminalFormat
	JsonFormat       = log15.JsonFormat
)

// New returns a child of the root logger carrying ctx.
func New(ctx ...interface{}) Logger {
	return log15.New(ctx...)
}

func Root() Logger {
	return log15.Root()
}

// Setup points the root logger at w. Terminals get colored output, anything else logfmt.
func Setup(verbosity int, w io.Writer) {
	format := LogfmtFormat()
	if f, ok := w.(*os.File); ok && term.IsTty(f.Fd()) {
		format = TerminalFormat()
	}
	Root().SetHandler(LvlFilterHandler(Lvl(verbosity), StreamHandler(w, format)))
}

func Debug(msg string, ctx ...interface{}) {
	log15.Root().Debug(msg, ctx...)
}

func Info(msg string, ctx ...interface{}) {
	log15.Root().Info(msg, ctx...)
}

func Warn(msg string, ctx ...interface{}) {
	log15.Root().Warn(msg, ctx...)
}

func Error(msg string, ctx ...interface{}) {
	log15.Root().Error(msg, ctx...)
}

// Crit logs msg and terminates the process.
func Crit(msg string, ctx ...interface{}) {
	log15.Root().Crit(msg, ctx...)
	os.Exit(1)
}
