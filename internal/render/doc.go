// Package render turns a prepared document into the secondary export
// formats (standalone HTML, Markdown, DOCX) and inspects rendered PDFs.
// PDF rendering itself goes through headless Chrome in the root package.
package render
