// Package prompt implements the terminal-backed resolver for
// missing-field decisions. Each prompt explains the missing field and
// its consequence, then blocks on line input until the operator answers
// with "A" (abort) or "C" (continue).
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/oyvlun/sigproc/internal/depth"
	"github.com/oyvlun/sigproc/internal/viz"
)

// message holds the operator-facing text for one missing field.
type message struct {
	explain string
	ask     string
	warn    string
}

var messages = map[string]message{
	depth.FieldAtmosphericPressure: {
		explain: "could not find atmospheric pressure (p_atmo) - continuing is not\n" +
			"recommended if you plan to compute ice draft.\n" +
			"(to add p_atmo, run: sigproc set-atmo <file> <db>)",
		ask:  `depth calculation: abort (A) or continue (C): `,
		warn: "continuing without atmospheric correction (careful!)",
	},
	depth.FieldDensity: {
		explain: "no density (rho_ocean) field found.",
		ask: fmt.Sprintf(`enter "A" (abort) or "C" (continue using fixed rho = %.0f kg m-3): `,
			depth.FallbackDensity),
		warn: fmt.Sprintf("continuing with fixed rho = %.0f kg m-3", depth.FallbackDensity),
	},
}

// Terminal asks the operator to abort or continue when a recommended
// field is missing. It implements depth.Resolver. Reads block with no
// timeout; the only way out is a valid choice or a closed input.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a Terminal reading choices from in and writing
// prompts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Resolve(field string) (depth.Decision, error) {
	msg, ok := messages[field]
	if !ok {
		msg = message{
			explain: fmt.Sprintf("no %s field found.", field),
			ask:     `enter "A" (abort) or "C" (continue with the default fallback): `,
		}
	}

	fmt.Fprintln(t.out, viz.Warn.Render("WARNING: "+msg.explain))
	fmt.Fprint(t.out, viz.Prompt.Render(msg.ask))

	for {
		line, err := t.readLine()
		if err != nil {
			return depth.Abort, fmt.Errorf("prompt: %w", err)
		}

		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "A":
			return depth.Abort, nil
		case "C":
			if msg.warn != "" {
				fmt.Fprintln(t.out, viz.Warn.Render(msg.warn))
			}
			return depth.Continue, nil
		}

		fmt.Fprintln(t.out, viz.Errline.Render(
			fmt.Sprintf("input (%q) not recognized.", strings.TrimSpace(line))))
		fmt.Fprint(t.out, viz.Prompt.Render(`enter "C" (continue) or "A" (abort): `))
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}
