package export

import (
	"io"
	"os"

	"github.com/vanderheijden86/treetable/pkg/markup"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// WriteHTML writes the row state back into doc and renders the whole
// document to w. opts are the options the rows were initialized with.
func WriteHTML(w io.Writer, doc *markup.Document, opts treetable.Options) error {
	if doc == nil {
		return ErrNoDocument
	}
	defer metrics.Timer(metrics.Export)()

	doc.Apply(opts)
	return doc.Render(w)
}

// SaveHTML writes the annotated document to path.
func SaveHTML(path string, doc *markup.Document, opts treetable.Options) error {
	if doc == nil {
		return ErrNoDocument
	}
	return writeFile(path, func(f *os.File) error {
		return WriteHTML(f, doc, opts)
	})
}
