// Package imaging decodes image files into rasters for circle detection.
//
// It is the loader that sits in front of the detection package: files are
// decoded (PNG, JPEG, GIF), optionally cropped, blurred or inverted, and
// reduced to a luminance raster whose samples lie in [0, 1].
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. Regions
// use an inclusive top-left (X1,Y1) and an exclusive bottom-right (X2,Y2).
// Rasters produced here index rows first, so pixel (x, y) is raster (y, x).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The conversion functions are
// stateless and never modify the source image.
//
// # Errors
//
// Files that cannot be opened or decoded are reported as *DecodeError, which
// wraps the underlying OS or decoder error.
package imaging
