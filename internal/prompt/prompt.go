// Package prompt renders the model prompts used by the research service from
// embedded templates.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

var templates = template.Must(
	template.New("prompts").Funcs(templateFuncs()).ParseFS(promptTemplates, "templates/*.txt"),
)

// CredibilityData is the input of the source rating prompt.
type CredibilityData struct {
	Title   string
	URL     string
	Snippet string
}

// ComparedDocument is one document embedded in the comparison prompt.
type ComparedDocument struct {
	Index    int
	Filename string
	Text     string
}

type compareData struct {
	Documents []ComparedDocument
}

// AgentData is the input of the research agent system prompt.
type AgentData struct {
	MaxCompare int
	Files      []string
}

// Credibility renders the prompt asking a model for a 1-5 credibility rating.
func Credibility(title, url, snippet string) (string, error) {
	return render("credibility.txt", CredibilityData{Title: title, URL: url, Snippet: snippet})
}

// Compare renders the multi-document comparison prompt.
func Compare(docs []ComparedDocument) (string, error) {
	return render("compare.txt", compareData{Documents: docs})
}

// AgentSystem renders the system prompt of the research agent.
func AgentSystem(data AgentData) (string, error) {
	return render("agent_system.txt", data)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
	}
}
