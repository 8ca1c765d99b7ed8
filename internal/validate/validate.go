// Package validate holds the pure field validators applied before catalog
// entities reach storage. Validators never fail fast: every violation is
// collected into one Result so a caller can report all of them at once.
// List-typed inputs are expected to be deserialized by the caller first.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Result is the outcome of validating one entity's raw fields.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func newResult(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Err returns the collected violations as a single error, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("validation failed: %s", strings.Join(r.Errors, "; "))
}

var (
	urlPattern = regexp.MustCompile(`^https?://[A-Za-z0-9][A-Za-z0-9.-]*(?::\d+)?(?:/\S*)?$`)
	doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
)

const (
	minYear = 1800
)

func maxYear() int {
	return time.Now().Year() + 1
}

// Condition validates the raw fields of a medical condition.
func Condition(name, description string, symptoms, treatments, references []string) Result {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is required")
	} else if l := len(name); l < 2 || l > 100 {
		errs = append(errs, "name must be between 2 and 100 characters")
	}

	if strings.TrimSpace(description) == "" {
		errs = append(errs, "description is required")
	} else if len(description) < 10 {
		errs = append(errs, "description must be at least 10 characters")
	}

	errs = append(errs, checkItems("symptoms", symptoms)...)
	errs = append(errs, checkItems("treatments", treatments)...)
	errs = append(errs, checkItems("references", references)...)

	return newResult(errs)
}

// Uses models the two shapes medication uses arrive in: free text or an
// already-parsed list. Exactly one of the constructors should be used.
type Uses struct {
	text   string
	items  []string
	isText bool
}

func UsesText(s string) Uses { return Uses{text: s, isText: true} }
func UsesList(items []string) Uses { return Uses{items: items} }

// Items returns the list form, splitting nothing: free text becomes a
// single-item list when non-blank.
func (u Uses) Items() []string {
	if u.isText {
		if strings.TrimSpace(u.text) == "" {
			return []string{}
		}
		return []string{u.text}
	}
	if u.items == nil {
		return []string{}
	}
	return u.items
}

// Medication validates the raw fields of a medication.
func Medication(name, className string, uses Uses, sideEffects []string, dosing string, contraindications []string) Result {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is required")
	} else if l := len(name); l < 2 || l > 100 {
		errs = append(errs, "name must be between 2 and 100 characters")
	}

	if strings.TrimSpace(className) == "" {
		errs = append(errs, "class name is required")
	} else if l := len(className); l < 2 || l > 100 {
		errs = append(errs, "class name must be between 2 and 100 characters")
	}

	if uses.isText {
		if len(strings.TrimSpace(uses.text)) < 5 {
			errs = append(errs, "uses must be at least 5 characters")
		}
	} else {
		errs = append(errs, checkItems("uses", uses.items)...)
	}

	errs = append(errs, checkItems("side effects", sideEffects)...)
	errs = append(errs, checkItems("contraindications", contraindications)...)

	if strings.TrimSpace(dosing) == "" {
		errs = append(errs, "dosing is required")
	} else if len(dosing) < 5 {
		errs = append(errs, "dosing must be at least 5 characters")
	}

	return newResult(errs)
}

// Reference validates the raw fields of a literature reference. url, year
// and doi are optional and only checked when present.
func Reference(title string, url, authors, publication *string, year *int, doi *string) Result {
	var errs []string

	if strings.TrimSpace(title) == "" {
		errs = append(errs, "title is required")
	} else if l := len(title); l < 5 || l > 200 {
		errs = append(errs, "title must be between 5 and 200 characters")
	}

	if url != nil && *url != "" && !urlPattern.MatchString(*url) {
		errs = append(errs, "url must be a valid absolute URL")
	}

	if year != nil {
		if *year < minYear || *year > maxYear() {
			errs = append(errs, fmt.Sprintf("year must be between %d and %d", minYear, maxYear()))
		}
	}

	if doi != nil && *doi != "" && !doiPattern.MatchString(*doi) {
		errs = append(errs, "doi must match the pattern 10.NNNN/suffix")
	}

	return newResult(errs)
}

// Guideline validates the raw fields of a clinical guideline. organization
// and year are required, unlike references.
func Guideline(title, organization string, year int, summary, url *string) Result {
	var errs []string

	if strings.TrimSpace(title) == "" {
		errs = append(errs, "title is required")
	} else if l := len(title); l < 5 || l > 200 {
		errs = append(errs, "title must be between 5 and 200 characters")
	}

	if strings.TrimSpace(organization) == "" {
		errs = append(errs, "organization is required")
	} else if l := len(organization); l < 2 || l > 200 {
		errs = append(errs, "organization must be between 2 and 200 characters")
	}

	if year == 0 {
		errs = append(errs, "publication year is required")
	} else if year < minYear || year > maxYear() {
		errs = append(errs, fmt.Sprintf("publication year must be between %d and %d", minYear, maxYear()))
	}

	if url != nil && *url != "" && !urlPattern.MatchString(*url) {
		errs = append(errs, "url must be a valid absolute URL")
	}

	return newResult(errs)
}

// checkItems rejects blank entries inside a string list. The list itself may
// be empty.
func checkItems(field string, items []string) []string {
	var errs []string
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			errs = append(errs, fmt.Sprintf("%s[%d] must be a non-empty string", field, i))
		}
	}
	return errs
}
