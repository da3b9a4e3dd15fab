package compiler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	fsadapter "github.com/aretw0/arsiv/pkg/adapters/fs"
)

// CheckResult compares the artifact on disk with a fresh build.
type CheckResult struct {
	Report   Report
	UpToDate bool
	Diff     string // line diff, "-" for the artifact on disk and "+" for the fresh build
}

// Check builds the catalog in memory and compares it with cfg.Output.
// A missing artifact is reported as stale, not as an error.
func Check(ctx context.Context, cfg Config) (CheckResult, error) {
	catalog, report, err := Build(ctx, cfg)
	if err != nil {
		return CheckResult{}, err
	}
	fresh, err := fsadapter.Encode(catalog)
	if err != nil {
		return CheckResult{}, err
	}

	current, err := os.ReadFile(report.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return CheckResult{}, err
	}

	if string(current) == string(fresh) {
		return CheckResult{Report: report, UpToDate: true}, nil
	}
	return CheckResult{
		Report: report,
		Diff:   lineDiff(string(current), string(fresh)),
	}, nil
}

func lineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			continue
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
