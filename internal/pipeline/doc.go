// Package pipeline turns report Markdown into a print-ready HTML document.
//
// Stages, in the order the converter runs them:
//   - Markdown preprocessing (line endings, ==highlight==, layout directives
//     carried as private-use placeholders)
//   - Markdown to HTML via goldmark
//   - resource rewriting (file:// URLs, figure sizes) and placeholder
//     conversion
//   - CSS, cover, table of contents and colophon injection
//
// PDF rendering lives in the root reportpdf package.
package pipeline
