// Package filter implements the CSS filter primitives used by the card
// fallback compositor as 4x5 colour matrices.
//
// Each primitive follows the W3C Filter Effects definitions for
// brightness(), contrast(), saturate(), sepia(), grayscale() and
// hue-rotate(). A chain of primitives composes into a single matrix, so a
// full filter string costs one pass over the pixels.
//
// Pixel data is premultiplied RGBA, 4 bytes per pixel.
package filter
