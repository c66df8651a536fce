// Package validator provides rule-based field validation. Rules are pure
// closures combined with Apply, which returns every violation at once so
// callers can surface field-level detail in one response.
package validator
