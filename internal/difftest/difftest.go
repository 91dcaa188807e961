// Package difftest provides a unified-diff assertion helper for
// round-trip tests, following the same gotextdiff invocation the
// teacher repository's writer tests use to report a mismatched golden
// dump.
package difftest

import (
	"fmt"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Equal fails t with a unified diff of want vs got if they differ.
// Intended for round-trip tests comparing a golden dump (or any other
// rendered text) against freshly generated output.
func Equal(t *testing.T, name, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), want, got)
	diff := fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
	t.Errorf("%s mismatch:\n%s", name, diff)
}
