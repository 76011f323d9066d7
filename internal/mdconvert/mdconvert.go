// Package mdconvert converts a page's isolated content node into clean
// Markdown for the Analysis Pipeline's PageContent.CleanContent field.
// Grounded on the teacher's internal/mdconvert.StrictConversionRule
// (html-to-markdown/v2 with the base/commonmark/table plugins, semantic
// fidelity over visual fidelity, no inferred structure), repointed from
// sanitized-HTML-doc input to the content-isolation node pageextract
// already produces, and stripped of the link-ref bookkeeping the spec
// has no use for.
package mdconvert

import (
	"errors"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

var ErrNilNode = errors.New("mdconvert: cannot convert a nil HTML node")

// Converter turns an isolated content DOM node into Markdown.
type Converter struct {
	conv *converter.Converter
}

func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert renders node (and its subtree) as Markdown. A nil node is a
// caller error, not a conversion failure, so it's reported distinctly
// from a library-level conversion error.
func (c *Converter) Convert(node *html.Node) (string, error) {
	if node == nil {
		return "", ErrNilNode
	}
	out, err := c.conv.ConvertNode(node)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
