// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp recording identifiers, stage names, and
//     per-run correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (validation vs resolution vs external tool) uniform.
package services
