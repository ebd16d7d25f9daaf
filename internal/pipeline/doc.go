// Package pipeline holds the document transformations applied between an
// editing surface and a renderer:
//   - style normalization against a theme (StyleNormalizer)
//   - export header and footer generation (AddChrome)
//   - standalone document wrapping and CSS injection
//   - embedded image recompression (ImageRecompressor)
//   - Markdown import via Goldmark, with relative path resolution
//
// Every stage works on a detached document.Document or on rendered markup;
// none of them touch the live surface. Rendering to PDF and the other output
// formats lives in the root package and internal/render.
package pipeline
