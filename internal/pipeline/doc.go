// Package pipeline wires the artifact detector and the overlay renderer into
// the end-to-end artifact-mask run.
//
// A run loads an image, scores it, renders the glyph overlay, composites and
// saves the result. Tunables come from Config, which can be read from YAML
// with LoadConfig. Text for artifact regions comes from, in order of
// precedence, an explicit fragment list (ParseTextFlag), a sidecar file next
// to the input (LoadSidecar), or DefaultFragments.
//
// ShowMap is a diagnostic alternative to Process that saves the score map as
// a heat overlay instead.
package pipeline
