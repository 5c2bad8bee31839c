package printer

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// CommandRunner runs an external program and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// QueueJob is one entry of the OS print queue.
type QueueJob struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Bytes string `json:"bytes"`
}

// spoolerSink submits raw jobs to the CUPS queue of a named printer.
type spoolerSink struct {
	printer string
	runner  CommandRunner
	tempDir string
}

func (s *spoolerSink) send(ctx context.Context, data []byte) error {
	f, err := os.CreateTemp(s.tempDir, "receipt-*.bin")
	if err != nil {
		return errors.Mark(errors.Wrap(err, "printer: create spool file"), ErrWriteFailed)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Mark(errors.Wrapf(err, "printer: write spool file %s", path), ErrWriteFailed)
	}
	if err := f.Close(); err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: close spool file %s", path), ErrWriteFailed)
	}

	out, err := s.runner.Run(ctx, "lp", "-d", s.printer, "-o", "raw", path)
	if err != nil {
		return errors.Mark(
			errors.Wrapf(err, "printer: submit job to %s: %s", s.printer, strings.TrimSpace(string(out))),
			ErrConnectionFailed,
		)
	}
	return nil
}

func (s *spoolerSink) probe(ctx context.Context) error {
	out, err := s.runner.Run(ctx, "lpstat", "-p", s.printer)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: %s not found", s.printer), ErrConnectionFailed)
	}
	if strings.Contains(string(out), "disabled") {
		return errors.Mark(errors.Newf("printer: %s is disabled", s.printer), ErrConnectionFailed)
	}
	return nil
}

func (s *spoolerSink) name() string {
	return "Spooler printer (" + s.printer + ")"
}

// SpoolerTransport prints through the operating system print queue.
type SpoolerTransport struct {
	*escposTransport
	spool *spoolerSink
}

// NewSpoolerTransport creates a transport that submits raw ESC/POS jobs to
// printerName. A nil runner executes the real lp and lpstat binaries.
func NewSpoolerTransport(printerName string, runner CommandRunner, logger *zap.SugaredLogger) *SpoolerTransport {
	if runner == nil {
		runner = execRunner{}
	}
	spool := &spoolerSink{printer: printerName, runner: runner}
	return &SpoolerTransport{escposTransport: newESCPOSTransport(spool, logger), spool: spool}
}

// ListPrinters returns the names of printers known to the spooler.
func (t *SpoolerTransport) ListPrinters(ctx context.Context) ([]string, error) {
	out, err := t.spool.runner.Run(ctx, "lpstat", "-p")
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "printer: list printers"), ErrConnectionFailed)
	}
	return parsePrinterList(string(out)), nil
}

// Queue returns the pending jobs of the configured printer.
func (t *SpoolerTransport) Queue(ctx context.Context) ([]QueueJob, error) {
	out, err := t.spool.runner.Run(ctx, "lpstat", "-o", t.spool.printer)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "printer: queue of %s", t.spool.printer), ErrConnectionFailed)
	}
	return parseQueue(string(out)), nil
}

// parsePrinterList reads lines like "printer NAME is idle.  enabled since ...".
func parsePrinterList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "printer" {
			names = append(names, fields[1])
		}
	}
	return names
}

// parseQueue reads lines like "NAME-12  user  1024  Mon 01 Jan 2024 10:00:00".
func parseQueue(out string) []QueueJob {
	var jobs []QueueJob
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		jobs = append(jobs, QueueJob{ID: fields[0], User: fields[1], Bytes: fields[2]})
	}
	return jobs
}
