package diagfmt

import (
	"io"
	"strings"

	"qmllint/internal/diag"
	"qmllint/internal/source"
)

// Short prints one line per diagnostic in the golden format.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, withNotes bool) error {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, withNotes)
	if out == "" {
		return nil
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}
