package catalog

import (
	"fmt"
	"regexp"
)

// identPattern matches identifiers that are safe to quote into generated
// SQL: a letter followed by letters, digits, underscore, $ or #.
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*$`)

// ValidateIdent rejects any name that could not have come out of a catalog
// query. Generated queries only ever embed names that passed this check and
// were confirmed against the snapshot, never raw user input.
func ValidateIdent(name string) error {
	if name == "" {
		return fmt.Errorf("empty identifier")
	}
	if len(name) > 128 {
		return fmt.Errorf("identifier %q exceeds 128 characters", name)
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("identifier %q contains unsafe characters", name)
	}
	return nil
}

// ValidateIdents applies ValidateIdent to every name.
func ValidateIdents(names ...string) error {
	for _, name := range names {
		if err := ValidateIdent(name); err != nil {
			return err
		}
	}
	return nil
}
