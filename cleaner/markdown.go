package cleaner

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// newMarkdownConverter builds the converter shared by every Markdown call.
// Rule excerpts carry fine and sign tables, so the table plugin stays on
// with minimal padding.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// Markdown renders sanitized legal HTML as Markdown. Links left relative
// are resolved against the origin.
func (c *Cleaner) Markdown(sanitized string) (string, error) {
	md, err := c.md.ConvertString(sanitized, converter.WithDomain(c.origin))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
