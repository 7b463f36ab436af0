package server

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/sambeau/measure/pkg/measure/catalog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed help.md
var helpMarkdown string

const helpTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>measure</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: left; vertical-align: top; }
code, pre { background: #f5f5f5; }
</style>
</head>
<body>
%s</body>
</html>
`

// renderHelpPage renders the embedded help text and a table of the catalog.
func renderHelpPage() ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(helpMarkdown+"\n"+catalogTable()), &body); err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, helpTemplate, body.String()), nil
}

// catalogTable renders the catalog as a GFM table.
func catalogTable() string {
	var b strings.Builder
	b.WriteString("| Category | Units |\n|---|---|\n")
	for _, c := range catalog.Categories() {
		units := catalog.Units(c)
		for i, u := range units {
			units[i] = "`" + u + "`"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", c, strings.Join(units, ", "))
	}
	return b.String()
}
