// Package imaging provides image I/O and pixel helpers shared by the artifact
// detector and the overlay renderer.
//
// All buffers handed to the rest of the module are *image.NRGBA with origin
// (0,0) and alpha forced to 255, so callers can index Pix directly with
// offset = y*Stride + x*4. Grayscale planes are *image.Gray with the same origin.
//
// # Resampling
//
// Two resampling paths exist and are intentionally not interchangeable:
//   - ResizeLanczos: high-quality color resampling (Lanczos-3).
//   - ResizeGrayLinear: bilinear resampling of 8-bit score planes.
//
// Switching either filter changes the rendered output, so callers pick the
// function that matches the data they resample.
//
// # Formats
//
// Load decodes PNG, JPEG, GIF, BMP, TIFF and WebP. Save picks the encoder from
// the output file extension.
//
// # Regions and grids
//
// NamedRegion maps names such as "top-left" or "center" to rectangles, for
// scoring part of an image. DrawGrid marks block boundaries on diagnostics.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
// DrawGrid draws into its argument; everything else leaves inputs untouched.
package imaging
