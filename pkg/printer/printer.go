// Package printer renders emitted runtime values as text for the CLI and
// REPL.
package printer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"tally/interpreter-go/pkg/runtime"
)

// Options selects the rendering of numbers. An empty Locale prints plain
// digits; FloatPrecision of -1 prints the shortest exact form.
type Options struct {
	Locale         string
	FloatPrecision int
}

// Printer formats values. It is safe to reuse across values.
type Printer struct {
	msg            *message.Printer
	floatPrecision int
}

func New(opts Options) (*Printer, error) {
	p := &Printer{floatPrecision: opts.FloatPrecision}
	if opts.Locale != "" {
		tag, err := language.Parse(opts.Locale)
		if err != nil {
			return nil, fmt.Errorf("printer: invalid locale %q: %w", opts.Locale, err)
		}
		p.msg = message.NewPrinter(tag)
	}
	return p, nil
}

// Plain returns a printer with no locale and shortest float formatting.
func Plain() *Printer {
	return &Printer{floatPrecision: -1}
}

// Format renders a single value.
func (p *Printer) Format(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.WholeValue:
		if p.msg != nil {
			return p.msg.Sprintf("%v", number.Decimal(v.Val))
		}
		return strconv.FormatUint(v.Val, 10)
	case runtime.IntegerValue:
		if p.msg != nil {
			return p.msg.Sprintf("%v", number.Decimal(v.Val))
		}
		return strconv.FormatInt(v.Val, 10)
	case runtime.FloatValue:
		return p.formatFloat(v.Val)
	case runtime.BooleanValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.TextValue:
		return v.Val
	case *runtime.FunctionValue:
		return fmt.Sprintf("<function/%d>", v.Arity())
	case runtime.NativeFunctionValue:
		return fmt.Sprintf("<builtin %s>", v.Name)
	case runtime.VoidValue:
		return ""
	default:
		return fmt.Sprintf("[%s]", val.Kind())
	}
}

func (p *Printer) formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if p.msg != nil {
		if p.floatPrecision >= 0 {
			return p.msg.Sprintf("%v", number.Decimal(f, number.Scale(p.floatPrecision)))
		}
		return p.msg.Sprintf("%v", number.Decimal(f))
	}
	if p.floatPrecision >= 0 {
		return strconv.FormatFloat(f, 'f', p.floatPrecision, 64)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'g'
	}
	out := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(out, ".e") {
		out += ".0"
	}
	return out
}

// Writer prints one value per line. It satisfies interpreter.Output.
type Writer struct {
	Printer *Printer
	Out     io.Writer
}

func (w *Writer) Emit(val runtime.Value) error {
	_, err := fmt.Fprintln(w.Out, w.Printer.Format(val))
	return err
}
