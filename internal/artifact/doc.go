// Package artifact detects regions of low local structure in an image.
//
// Smooth or smeared zones left behind by image generators have little
// variation in their gradient magnitude, while detailed regions vary a lot.
// The detector turns that observation into a continuous per-pixel score:
//
//	image -> grayscale -> GradientField -> BlockScorer -> Upsampler -> ScoreMap
//
// Scores are in [0,1] where 0 is clean/detailed and 1 is smooth/artifact.
// Blocks whose mean brightness does not exceed the minimum are shadows and
// always score 0. When nothing stands out (no lit blocks, or a collapsed
// variance range) the whole map is zero rather than an error.
//
// All functions are deterministic and never modify their inputs.
package artifact
