// Package raster provides the pixel buffers and image operations behind the
// canal effects.
//
// A [Raster] is a non-premultiplied RGBA buffer (the layout of
// [image.NRGBA]). Rasters handed to an [Arena] are treated as immutable: every
// operation writes a fresh surface obtained from an [Allocator] and leaves its
// inputs untouched.
//
// Operations:
//   - Decode/Encode: png, jpeg, gif, webp, bmp and tiff in; png and jpeg out
//   - Blur: separable Gaussian or triple box blur
//   - ColorCorrect: exposure, brightness, contrast, saturation, hue
//   - Transform: scale, rotate and translate onto a padded working surface
//   - Opacity, Layer, Stretch and Fit for compositing and resizing
package raster
