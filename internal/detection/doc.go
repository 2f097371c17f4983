// Package detection finds circles of a known radius with a Hough-style
// matched filter.
//
// A ring-shaped kernel for the radius is correlated with the image. The
// response (the accumulator) is large where many bright pixels lie at the
// given distance from a pixel, so circle centers show up as peaks. Pixels
// whose response reaches a quantile of all responses are reported as centers.
//
// # Pipeline
//
//  1. Ingestion: FromUint8 or FromFloat64 builds a Raster once. 8-bit samples
//     are divided by 255; float samples are expected in [0, 1].
//  2. Template: CreateTemplate rasterizes one octant of the ring with a
//     midpoint walk, mirrors it eight ways and normalizes it to sum 1.
//  3. Transform: Transformer.Hough correlates each channel with the kernel
//     ("same" output size, zero padding), either directly over the ring's
//     non-zero taps or through zero-padded FFTs.
//  4. Peaks: Detector.Detect thresholds the accumulator at a quantile and
//     returns every pixel at or above it.
//
// # Coordinate System
//
// Centers are reported as (Row, Col), matching array indexing: Row is the
// y coordinate counted from the top, Col is x counted from the left.
//
// # What It Does Not Do
//
// The radius must be known. Adjacent high-scoring pixels are not merged, so a
// single circle typically yields a small cluster of centers. Results are not
// sorted by score.
//
// # Concurrency
//
// All functions are synchronous and never modify their inputs. The only
// shared state is the KernelCache, which is safe for concurrent use. The
// package has no cancellation hook; callers needing a deadline should run
// detection in a goroutine and abandon it.
package detection
