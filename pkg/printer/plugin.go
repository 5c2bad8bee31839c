package printer

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/sangkips/counterpos/pkg/receipt"
)

// Font sizes used on embedded printers, in points.
const (
	pluginFontNormal = 24
	pluginFontLarge  = 32
	pluginFontHuge   = 48
)

// PluginTypefaceBold is the typeface passed to PrintTextWithFont for
// emphasized text.
const PluginTypefaceBold = "bold"

// PluginAPI is the printer interface exposed by an embedded terminal, such
// as the built-in printer of an Android POS device.
type PluginAPI interface {
	PrinterInit(ctx context.Context) error
	PrinterStatus(ctx context.Context) (code int, message string, err error)
	SetAlignment(ctx context.Context, align receipt.Align) error
	SetFontSize(ctx context.Context, size int) error
	PrintText(ctx context.Context, text string) error
	PrintTextWithFont(ctx context.Context, text, typeface string, size int) error
	PrintColumnsText(ctx context.Context, texts []string, widths []int, aligns []receipt.Align) error
	PrintBitmap(ctx context.Context, bitmap *receipt.Bitmap) error
	LineWrap(ctx context.Context, lines int) error
	CutPaper(ctx context.Context) error
	OpenDrawer(ctx context.Context) error
}

// PluginTransport drives a PluginAPI one instruction at a time.
type PluginTransport struct {
	api    PluginAPI
	name   string
	logger *zap.SugaredLogger
}

// NewPluginTransport wraps a host printer API.
func NewPluginTransport(api PluginAPI, name string, logger *zap.SugaredLogger) *PluginTransport {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if name == "" {
		name = "Embedded printer"
	}
	return &PluginTransport{api: api, name: name, logger: logger}
}

func (t *PluginTransport) Render(ctx context.Context, doc *receipt.Document) error {
	if err := t.api.PrinterInit(ctx); err != nil {
		return errors.Mark(errors.Wrap(err, "printer: init embedded printer"), ErrConnectionFailed)
	}

	for i, in := range doc.Instructions() {
		if err := t.render(ctx, in, doc.Width()); err != nil {
			return errors.Mark(errors.Wrapf(err, "printer: instruction %d", i), ErrWriteFailed)
		}
	}
	t.logger.Infow("document printed", "printer", t.name, "kind", doc.Kind())
	return nil
}

func (t *PluginTransport) render(ctx context.Context, in receipt.Instruction, width int) error {
	switch v := in.(type) {
	case receipt.Text:
		return t.text(ctx, v, width)
	case receipt.ColumnRow:
		if err := t.api.SetAlignment(ctx, receipt.AlignLeft); err != nil {
			return err
		}
		if v.Bold {
			// Column printing has no emphasis, so bold rows go out pre-laid.
			for _, line := range v.Lines() {
				if err := t.api.PrintTextWithFont(ctx, line+"\n", PluginTypefaceBold, pluginFontSize(v.Scale)); err != nil {
					return err
				}
			}
			return nil
		}
		if err := t.api.SetFontSize(ctx, pluginFontSize(v.Scale)); err != nil {
			return err
		}
		return t.api.PrintColumnsText(ctx, v.Cells, v.Widths, v.Aligns)
	case receipt.Image:
		if err := v.Bitmap.Validate(); err != nil {
			t.logger.Warnw("image unusable, printing fallback", "ref", v.Ref, "error", err)
			for _, f := range v.Fallback {
				if err := t.text(ctx, f, width); err != nil {
					return err
				}
			}
			return nil
		}
		if err := t.api.SetAlignment(ctx, v.Align); err != nil {
			return err
		}
		return t.api.PrintBitmap(ctx, v.Bitmap)
	case receipt.Feed:
		return t.api.LineWrap(ctx, v.Lines)
	case receipt.Cut:
		return t.api.CutPaper(ctx)
	}
	return nil
}

func (t *PluginTransport) text(ctx context.Context, v receipt.Text, width int) error {
	if err := t.api.SetAlignment(ctx, v.Align); err != nil {
		return err
	}
	size := pluginFontSize(v.Scale)
	if v.Bold {
		for _, line := range v.Lines(width) {
			if err := t.api.PrintTextWithFont(ctx, line+"\n", PluginTypefaceBold, size); err != nil {
				return err
			}
		}
		return nil
	}
	if err := t.api.SetFontSize(ctx, size); err != nil {
		return err
	}
	for _, line := range v.Lines(width) {
		if err := t.api.PrintText(ctx, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (t *PluginTransport) OpenDrawer(ctx context.Context) error {
	if err := t.api.OpenDrawer(ctx); err != nil {
		return errors.Mark(errors.Wrap(err, "printer: open drawer"), ErrWriteFailed)
	}
	return nil
}

// Status reports connected when the host returns status code 1 (ready).
func (t *PluginTransport) Status(ctx context.Context) Status {
	st := Status{Name: t.name}
	code, msg, err := t.api.PrinterStatus(ctx)
	switch {
	case err != nil:
		st.Error = err.Error()
	case code != 1:
		st.Error = msg
	default:
		st.Connected = true
	}
	return st
}

func (t *PluginTransport) Name() string {
	return t.name
}

func pluginFontSize(scale receipt.Scale) int {
	switch scale {
	case receipt.ScaleDouble:
		return pluginFontHuge
	case receipt.ScaleTall, receipt.ScaleWide:
		return pluginFontLarge
	default:
		return pluginFontNormal
	}
}
