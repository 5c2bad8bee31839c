package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sangkips/counterpos/pkg/receipt"
)

// SimulatedTransport prints a plain-text rendition of each document. It is
// used when no printer hardware is configured and never fails.
type SimulatedTransport struct {
	mu     sync.Mutex
	out    io.Writer
	logger *zap.SugaredLogger
}

// NewSimulatedTransport creates a simulated printer writing to out, or to
// stdout when out is nil.
func NewSimulatedTransport(out io.Writer, logger *zap.SugaredLogger) *SimulatedTransport {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SimulatedTransport{out: out, logger: logger}
}

func (t *SimulatedTransport) Render(_ context.Context, doc *receipt.Document) error {
	dump := Dump(doc)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.out, dump); err != nil {
		t.logger.Warnw("simulated printer output failed", "error", err)
	}
	t.logger.Infow("simulated print", "kind", doc.Kind(), "instructions", doc.Len())
	return nil
}

func (t *SimulatedTransport) OpenDrawer(_ context.Context) error {
	t.logger.Infow("simulated cash drawer opened")
	return nil
}

func (t *SimulatedTransport) Status(_ context.Context) Status {
	return Status{Connected: false, Name: t.Name(), Error: `printer type set to "none"`}
}

func (t *SimulatedTransport) Name() string {
	return "No printer configured"
}

// Dump renders doc as human-readable text framed by a banner.
func Dump(doc *receipt.Document) string {
	width := doc.Width()
	banner := strings.Repeat("=", width)

	var sb strings.Builder
	sb.WriteString(banner + "\n")
	sb.WriteString(fmt.Sprintf("SIMULATED %s\n", strings.ToUpper(simulatedTitle(doc.Kind()))))
	sb.WriteString(banner + "\n")

	writeText := func(t receipt.Text) {
		w := width
		if t.Scale.DoubleWidth() {
			w /= 2
		}
		for _, line := range t.Lines(width) {
			sb.WriteString(strings.TrimRight(receipt.Pad(line, w, t.Align), " "))
			sb.WriteByte('\n')
		}
	}

	for _, in := range doc.Instructions() {
		switch v := in.(type) {
		case receipt.Text:
			writeText(v)
		case receipt.ColumnRow:
			for _, line := range v.Lines() {
				sb.WriteString(strings.TrimRight(line, " "))
				sb.WriteByte('\n')
			}
		case receipt.Image:
			if err := v.Bitmap.Validate(); err != nil {
				for _, t := range v.Fallback {
					writeText(t)
				}
				continue
			}
			label := fmt.Sprintf("[%s %dx%d]", v.Ref, v.Bitmap.Width, v.Bitmap.Height)
			writeText(receipt.Text{Value: label, Align: v.Align})
		case receipt.Feed:
			sb.WriteString(strings.Repeat("\n", v.Lines))
		case receipt.Cut:
			sb.WriteString(strings.ReplaceAll(receipt.Pad("[cut]", width, receipt.AlignCenter), " ", "-") + "\n")
		}
	}
	sb.WriteString(banner + "\n")
	return sb.String()
}

func simulatedTitle(kind receipt.Kind) string {
	switch kind {
	case receipt.KindKitchen:
		return "kitchen docket"
	case receipt.KindCustomer:
		return "customer receipt"
	default:
		return string(kind)
	}
}
