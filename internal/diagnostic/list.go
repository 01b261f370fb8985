package diagnostic

import "sort"

// Sort orders diagnostics deterministically: by start offset, then end
// offset, then severity (errors first), then checker, then code. The merge
// of concurrently produced checker output goes through this before the gate
// decides, so report ordering is reproducible regardless of scheduling.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		di, dj := diags[i], diags[j]
		if di.Range.Start.Offset != dj.Range.Start.Offset {
			return di.Range.Start.Offset < dj.Range.Start.Offset
		}
		if di.Range.End.Offset != dj.Range.End.Offset {
			return di.Range.End.Offset < dj.Range.End.Offset
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Checker != dj.Checker {
			return di.Checker < dj.Checker
		}
		return di.Code < dj.Code
	})
}

// HasErrors reports whether any diagnostic carries Error severity
func HasErrors(diags []Diagnostic) bool {
	for i := range diags {
		if diags[i].Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of errors and warnings in the list
func Count(diags []Diagnostic) (errors, warnings int) {
	for i := range diags {
		switch diags[i].Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
