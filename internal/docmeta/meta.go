package docmeta

import (
	"path/filepath"
	"strings"
	"unicode"

	gslug "github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Defaults the original corpus carries on every record. Callers can override
// any of them through Overrides or by editing the returned map.
const (
	DefaultSection      = "Main"
	defaultJurisdiction = "GB"
	defaultDocType      = "guidance"
	defaultVersion      = "1.0"
	defaultOwner        = "HSE-App"
)

// Overrides carries caller-supplied metadata fields that take precedence
// over derived values.
type Overrides struct {
	Title   string
	Slug    string
	Section string
}

var mdParser = goldmark.New()

// Build assembles the base metadata map for a document and returns it with
// the section label. The title comes from the first markdown heading when
// the file is markdown, otherwise from the filename; the slug is derived
// from the file stem unless overridden.
func Build(relPath string, content []byte, ov Overrides) (map[string]any, string) {
	title := ov.Title
	if title == "" {
		if isMarkdown(relPath) {
			title = TitleFromMarkdown(content)
		}
		if title == "" {
			title = TitleFromFilename(relPath)
		}
	}

	slugName := ov.Slug
	if slugName == "" {
		slugName = SlugFromFilename(relPath)
	}

	section := ov.Section
	if section == "" {
		section = DefaultSection
	}

	meta := map[string]any{
		"title":         title,
		"slug":          slugName,
		"jurisdiction":  defaultJurisdiction,
		"doc_type":      defaultDocType,
		"version":       defaultVersion,
		"owner":         defaultOwner,
		"source_url":    "",
		"tags":          []any{},
		"source_format": sourceFormat(relPath),
	}

	return meta, section
}

// TitleFromMarkdown extracts the first level-1 heading, falling back to the
// first level-2 heading. Returns "" when the document has neither.
func TitleFromMarkdown(content []byte) string {
	doc := mdParser.Parser().Parse(text.NewReader(content))

	var firstH1, firstH2 string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := nodeText(heading, content)
		switch {
		case heading.Level == 1 && firstH1 == "":
			firstH1 = headingText
		case heading.Level == 2 && firstH2 == "" && firstH1 == "":
			firstH2 = headingText
		}
		if firstH1 != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	return firstH2
}

// TitleFromFilename turns a file path into a title: extension stripped and
// the first letter of each word capitalized.
func TitleFromFilename(path string) string {
	name := fileStem(path)
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// SlugFromFilename derives a URL-safe slug from the file stem.
func SlugFromFilename(path string) string {
	s := gslug.Make(fileStem(path))
	if s == "" {
		return "doc"
	}
	return s
}

func fileStem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

func sourceFormat(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "unknown"
	}
	return ext
}

func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
