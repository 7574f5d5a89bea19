package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// RenderTree renders the outline of a plan to a markdown string.
func RenderTree(t *Tree) string {
	partials := map[string]string{
		"tree_title": "tree_title.md",
		"tree_rows":  "tree_rows.md",
	}
	return renderTemplate("tree", "tree.md", partials, t)
}

// RenderChart renders the dataset displayed by a chart to a markdown string.
func RenderChart(c *Chart) string {
	partials := map[string]string{
		"chart_segments": "chart_segments.md",
	}
	return renderTemplate("chart", "chart.md", partials, c)
}

// RenderValidation renders a validation report to a markdown string.
func RenderValidation(v *Validation) string {
	return renderTemplate("validation", "validation.md", nil, v)
}

// RenderPlans renders the list of stored plans to a markdown string.
func RenderPlans(l *PlanList) string {
	return renderTemplate("plans", "plans.md", nil, l)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
