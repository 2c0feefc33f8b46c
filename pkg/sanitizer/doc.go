// Package sanitizer normalizes free-form request fields before validation so
// that equivalent spellings of a slot label or plate compare equal.
package sanitizer
