// Package language provides unified language code normalization and mapping.
//
// The configured two-letter code is translated to ISO 639-2 exactly once,
// here, and stream tag comparison is consolidated so audio selection and
// container tagging agree on what counts as a match.
package language
