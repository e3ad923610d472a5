package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
)

// IsDynamic reports whether a revision constraint needs a revision
// listing to resolve: latest.* selectors, 1.2.+ prefix dynamics, and
// [1.0,2.0) ranges.
func IsDynamic(revision string) bool {
	trimmed := strings.TrimSpace(revision)
	return strings.HasPrefix(trimmed, "latest.") ||
		strings.HasSuffix(trimmed, "+") ||
		strings.HasPrefix(trimmed, "[") ||
		strings.HasPrefix(trimmed, "(")
}

// SelectRevision picks the revision satisfying the constraint among
// the candidates, preferring the latest. Fails with a NotFound error
// when no candidate matches.
func SelectRevision(constraint string, candidates []string) (string, error) {
	trimmed := strings.TrimSpace(constraint)
	switch {
	case trimmed == "latest.integration":
		return latestOf(constraint, candidates)
	case trimmed == "latest.release":
		var released []string
		for _, candidate := range candidates {
			if version, err := semver.NewVersion(candidate); err == nil && version.Prerelease() == "" {
				released = append(released, candidate)
			}
		}
		return latestOf(constraint, released)
	case strings.HasSuffix(trimmed, "+"):
		prefix := strings.TrimSuffix(trimmed, "+")
		var matched []string
		for _, candidate := range candidates {
			if strings.HasPrefix(candidate, prefix) {
				matched = append(matched, candidate)
			}
		}
		return latestOf(constraint, matched)
	case strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "("):
		return selectFromRange(trimmed, candidates)
	default:
		for _, candidate := range candidates {
			if candidate == trimmed {
				return candidate, nil
			}
		}
		return "", noCompatibleRevision(constraint)
	}
}

// selectFromRange evaluates ivy range constraints like [1.0,2.0),
// (,1.5], or [1.0,) by translating them to semver constraints.
// Candidates that do not parse as semver are excluded from ranges.
func selectFromRange(constraint string, candidates []string) (string, error) {
	open := constraint[0]
	last := constraint[len(constraint)-1]
	if (open != '[' && open != '(') || (last != ']' && last != ')') {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid revision range: %s", constraint))
	}
	body := constraint[1 : len(constraint)-1]
	lower, upper, found := strings.Cut(body, ",")
	if !found {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid revision range: %s", constraint))
	}
	var clauses []string
	if trimmed := strings.TrimSpace(lower); trimmed != "" {
		op := ">="
		if open == '(' {
			op = ">"
		}
		clauses = append(clauses, op+trimmed)
	}
	if trimmed := strings.TrimSpace(upper); trimmed != "" {
		op := "<="
		if last == ')' {
			op = "<"
		}
		clauses = append(clauses, op+trimmed)
	}
	if len(clauses) == 0 {
		return latestOf(constraint, candidates)
	}
	rangeConstraint, err := semver.NewConstraint(strings.Join(clauses, ", "))
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid revision range: %s", constraint)).
			WithCause(err)
	}
	var matched []string
	for _, candidate := range candidates {
		version, err := semver.NewVersion(candidate)
		if err != nil {
			continue
		}
		if rangeConstraint.Check(version) {
			matched = append(matched, candidate)
		}
	}
	return latestOf(constraint, matched)
}

func latestOf(constraint string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", noCompatibleRevision(constraint)
	}
	latest := candidates[0]
	for _, candidate := range candidates[1:] {
		if CompareRevisions(candidate, latest) > 0 {
			latest = candidate
		}
	}
	return latest, nil
}

func noCompatibleRevision(constraint string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no compatible revision for constraint %s", constraint))
}

// CompareRevisions orders two revisions. Revisions that both parse as
// semver are compared as such; otherwise the latest-revision ordering
// applies: revisions split into numeric and qualifier parts, numeric
// parts compared numerically, known qualifiers ranked
// dev < alpha < beta < rc < snapshot < (release), and numeric parts
// sorting after qualifiers.
func CompareRevisions(a, b string) int {
	versionA, errA := semver.NewVersion(a)
	versionB, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return versionA.Compare(versionB)
	}

	partsA := splitRevision(a)
	partsB := splitRevision(b)
	for i := 0; i < len(partsA) && i < len(partsB); i++ {
		if cmp := compareRevisionPart(partsA[i], partsB[i]); cmp != 0 {
			return cmp
		}
	}
	switch {
	case len(partsA) < len(partsB):
		return compareLength(partsB[len(partsA):], -1)
	case len(partsA) > len(partsB):
		return compareLength(partsA[len(partsB):], 1)
	default:
		return 0
	}
}

// compareLength decides ordering when one revision is a prefix of the
// other: a trailing qualifier sorts the longer revision below the
// shorter one (1.0-rc1 < 1.0), a trailing number sorts it above.
func compareLength(extra []string, sign int) int {
	if _, rank := qualifierRank(extra[0]); rank < releaseRank {
		return -sign
	}
	return sign
}

var revisionDelimiters = func(r rune) bool {
	return r == '.' || r == '-' || r == '_' || r == '+'
}

func splitRevision(revision string) []string {
	var parts []string
	for _, chunk := range strings.FieldsFunc(strings.TrimSpace(revision), revisionDelimiters) {
		// split letter/digit boundaries inside a chunk: 1rc2 -> 1, rc, 2
		start := 0
		for i := 1; i < len(chunk); i++ {
			if isDigit(chunk[i]) != isDigit(chunk[i-1]) {
				parts = append(parts, chunk[start:i])
				start = i
			}
		}
		parts = append(parts, chunk[start:])
	}
	return parts
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

const releaseRank = 5

func qualifierRank(part string) (bool, int) {
	switch strings.ToLower(part) {
	case "dev":
		return true, 0
	case "alpha", "a":
		return true, 1
	case "beta", "b":
		return true, 2
	case "rc", "cr":
		return true, 3
	case "snapshot":
		return true, 4
	case "final", "ga", "release":
		return true, releaseRank
	default:
		return false, releaseRank
	}
}

func compareRevisionPart(a, b string) int {
	numA, errA := strconv.Atoi(a)
	numB, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return numA - numB
	case errA == nil:
		// numbers sort above qualifiers
		return 1
	case errB == nil:
		return -1
	}
	knownA, rankA := qualifierRank(a)
	knownB, rankB := qualifierRank(b)
	if knownA || knownB {
		if rankA != rankB {
			return rankA - rankB
		}
		if knownA && knownB {
			return 0
		}
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
