package diagnostic

import (
	"fmt"
	"io"
)

// Render writes the full diagnostic report in the one-line-per-finding
// format, followed by an error/warning summary line.
func Render(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	errs, warns := Count(diags)
	if len(diags) > 0 {
		if _, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errs, warns); err != nil {
			return err
		}
	}
	return nil
}
