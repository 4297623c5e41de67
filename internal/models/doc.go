// Package models defines the records exchanged between the lookup stages.
//
// A lookup starts from an external identifier (a 64-bit Steam ID), resolves it to a
// service handle through search [Candidate]s, then joins a [ProfileSnapshot] with
// per-variant [GameVariantStats] into one [NormalizedStats].
//
// None of these records outlive the lookup that produced them.
package models
