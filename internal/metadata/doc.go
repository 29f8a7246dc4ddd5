// Package metadata models everything known about a recorded episode and
// renders it for embedding.
//
// The Episode record aggregates guide data from the catalog with fields
// filled in by the episode lookup. From it the package renders the final
// library path (template tags compatible with the recorder's formatPath
// convention), AtomicParsley arguments and an iTunMOVI plist for MP4
// tagging, and a Matroska global-tags XML document for mkvmerge.
package metadata
