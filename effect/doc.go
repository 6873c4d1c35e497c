// Package effect defines the effect specifications carried by graph nodes.
//
// An effect is a tagged union: [Spec] is implemented by exactly one struct per
// effect kind (File, Text, Null, Blur, Opacity, ColorCorrect, Transform, Merge,
// Composition, Export). Consumers dispatch with an exhaustive type switch.
//
// Specs are plain values. [Normalize] clamps every field into its documented
// range; the evaluator only ever sees normalized specs.
//
// # Handles
//
// Single-input effects expose one unnamed target handle. A Merge exposes
// inputCount named handles, input-0 through input-{n-1}. File and Text have no
// target handle; Export has no source handle.
package effect
