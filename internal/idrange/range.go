package idrange

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// MaxSpan is the widest range a single token may expand to. It stops a
	// typo like "1-99999999" from allocating millions of IDs.
	MaxSpan = 65536

	listSeparator = ","
)

// rangeSeparators are tried in order. ".." must come first so that "3..5" is
// not split on a single character.
var rangeSeparators = []string{"..", "-"}

// Expand parses spec and returns the IDs it denotes.
//
// Malformed tokens are rejected individually: the IDs from every well-formed
// token are still returned, alongside an error joining one
// *MalformedRangeError per rejected token. Callers that need all-or-nothing
// semantics should discard ids when err is non-nil.
//
// An empty or all-whitespace spec returns ErrNoIdentifiers so that callers can
// tell "nothing supplied" apart from "everything rejected".
func Expand(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, ErrNoIdentifiers
	}

	var (
		ids  []int
		errs []error
		seen = make(map[int]struct{})
	)

	for _, token := range strings.Split(spec, listSeparator) {
		token = strings.TrimSpace(token)

		// Tolerate stray separators, e.g. "1,2,".
		if token == "" {
			continue
		}

		expanded, err := expandToken(token)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, id := range expanded {
			if _, ok := seen[id]; ok {
				continue
			}

			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 && len(errs) == 0 {
		return nil, ErrNoIdentifiers
	}

	return ids, errors.Join(errs...)
}

func expandToken(token string) ([]int, error) {
	for _, sep := range rangeSeparators {
		if !strings.Contains(token, sep) {
			continue
		}

		lo, hi, ok := strings.Cut(token, sep)
		if !ok || strings.Contains(hi, sep) {
			return nil, newMalformedRangeError(token, "too many range separators")
		}

		start, err := parseID(strings.TrimSpace(lo))
		if err != nil {
			return nil, newMalformedRangeError(token, "invalid lower bound")
		}

		end, err := parseID(strings.TrimSpace(hi))
		if err != nil {
			return nil, newMalformedRangeError(token, "invalid upper bound")
		}

		if start > end {
			return nil, newMalformedRangeError(
				token,
				"lower bound is greater than upper bound",
			)
		}

		if end-start >= MaxSpan {
			return nil, newMalformedRangeError(token, "range is too wide")
		}

		ids := make([]int, 0, end-start+1)
		for id := start; id <= end; id++ {
			ids = append(ids, id)
		}

		return ids, nil
	}

	id, err := parseID(token)
	if err != nil {
		return nil, newMalformedRangeError(token, "not a job identifier")
	}

	return []int{id}, nil
}

// ParseID parses a single non-negative job ID. Signs, whitespace and anything
// other than ASCII digits are rejected.
func ParseID(s string) (int, error) {
	return parseID(s)
}

func parseID(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	return strconv.Atoi(s)
}
