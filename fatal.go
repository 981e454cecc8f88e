package vkboot

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
)

// FaultReporter ends the process on an unrecoverable condition. Neither method
// is expected to return.
type FaultReporter interface {
	Fatal(msg string)
	FatalUnlabeled()
}

// ExitReporter logs the fault and exits the process.
type ExitReporter struct {
	// Exit defaults to os.Exit.
	Exit func(code int)
	// Stack is logged with the message when set, usually the %+v rendering of
	// the error that caused the fault.
	Stack string
}

func (r *ExitReporter) exit() {
	if r.Exit != nil {
		r.Exit(1)
		return
	}
	os.Exit(1)
}

func (r *ExitReporter) Fatal(msg string) {
	if r.Stack != "" {
		logger.Error("fatal: "+msg, "stack", r.Stack)
	} else {
		logger.Error("fatal: " + msg)
	}
	r.exit()
}

func (r *ExitReporter) FatalUnlabeled() {
	logger.Error("fatal error")
	r.exit()
}

// ReportFatal hands err to the reporter. An error with an empty message is
// reported unlabeled.
func ReportFatal(r FaultReporter, err error) {
	if err == nil {
		return
	}
	if er, ok := r.(*ExitReporter); ok && er.Stack == "" {
		er.Stack = fmt.Sprintf("%+v", err)
	}
	msg := err.Error()
	if msg == "" {
		r.FatalUnlabeled()
		return
	}
	if hint := errors.FlattenHints(err); hint != "" {
		msg += " (" + hint + ")"
	}
	r.Fatal(msg)
}
