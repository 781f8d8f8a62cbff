// Package scene defines the in-memory scene description model for the
// Simple3DScene renderer. A Scene is a named, ordered tree of geometric
// primitives (spheres, cylinders, lines, surfaces, ...) and nested scenes.
// The tree is immutable after construction; Serialize converts it into a
// JSON-compatible structure with unset fields pruned, and Merge batches
// primitives that share styling attributes.
package scene
