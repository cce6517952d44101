package project

import (
	"io/fs"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// CheckResult is the outcome of testing a single marker.
type CheckResult int

const (
	Absent CheckResult = iota
	Present
	CheckFailed
)

func (r CheckResult) String() string {
	switch r {
	case Present:
		return "present"
	case CheckFailed:
		return "check-failed"
	default:
		return "absent"
	}
}

// MarkerFault records a marker that could not be tested.
type MarkerFault struct {
	Marker string
	Err    error
}

// Classification is the result of running the rule table against a directory.
type Classification struct {
	Type   Type
	Marker string        // marker that matched, empty when Type is None
	Faults []MarkerFault // checks that failed before the match (or before giving up)
}

// Found reports whether a rule matched.
func (c Classification) Found() bool {
	return c.Type != None
}

// Detector runs an ordered marker table against directories.
type Detector struct {
	rules []MarkerRule
}

// NewDetector creates a detector using the built-in table followed by extra rules.
func NewDetector(extra ...MarkerRule) (*Detector, error) {
	rules := DefaultRules()
	for _, r := range extra {
		if err := ValidateRule(r); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return &Detector{rules: rules}, nil
}

// Rules returns the detector's table in match order.
func (d *Detector) Rules() []MarkerRule {
	rules := make([]MarkerRule, len(d.rules))
	copy(rules, d.rules)
	return rules
}

// Classify returns the type of the first rule whose marker exists in dir.
// Markers that cannot be tested are recorded as faults and treated as absent
// for that rule only; it is up to the caller whether a fault matters.
func (d *Detector) Classify(dir fs.FS) Classification {
	var c Classification
	for _, rule := range d.rules {
		result, err := Check(dir, rule.Marker)
		switch result {
		case Present:
			c.Type = rule.Type
			c.Marker = rule.Marker
			return c
		case CheckFailed:
			c.Faults = append(c.Faults, MarkerFault{Marker: rule.Marker, Err: err})
		}
	}
	return c
}

// Check tests whether marker exists as a direct entry of dir.
func Check(dir fs.FS, marker string) (CheckResult, error) {
	_, err := fs.Stat(dir, marker)
	switch {
	case err == nil:
		return Present, nil
	case errors.Is(err, fs.ErrNotExist):
		return Absent, nil
	default:
		return CheckFailed, err
	}
}

// ValidateRule rejects markers that are not a plain file name and rules
// without a concrete type.
func ValidateRule(r MarkerRule) error {
	if r.Marker == "" || r.Marker == "." || r.Marker == ".." ||
		strings.ContainsAny(r.Marker, `/\`) || path.Clean(r.Marker) != r.Marker {
		return errors.Newf("invalid marker file name %q", r.Marker)
	}
	if r.Type == None {
		return errors.Newf("marker %q has no project type", r.Marker)
	}
	return nil
}
