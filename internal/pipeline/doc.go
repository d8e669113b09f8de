// Package pipeline holds the pure transforms between a validated résumé
// document and the markup handed to the viewer or the PDF rasterizer:
//   - Markdown enrichment of every string leaf (goldmark)
//   - plain-text reduction of enriched values for attributes
//   - stylesheet injection into template output
//   - relative asset path rewriting before rasterization
//
// Template execution and PDF generation live in the root package.
package pipeline
