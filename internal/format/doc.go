// Package format defines the pluggable image format abstraction: the Format
// descriptor with its reader/writer factories, and the insertion-ordered
// Registry used to look formats up by name, extension, or supported mode.
//
// Modes describe what a format can represent: i (single image), I (multiple
// images), v (single volume), V (multiple volumes).
package format
