// Package textutil provides filename sanitization helpers.
//
// The primary use cases are:
//   - Sanitizing rendered filenames and path segments for safe filesystem use
//   - Folding accented text to ASCII for filesystems without Unicode support
package textutil
