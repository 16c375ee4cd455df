// Package prompt renders the knowledge base into the system instruction sent
// with every chat completion.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

//go:embed templates/system.tmpl
var systemTemplateText string

var systemTemplate = template.Must(template.New("system").Parse(systemTemplateText))

const notAvailable = "N/A"

// FormatItem renders one knowledge row. Rows that are neither company facts,
// videos nor portfolio facts render empty.
func FormatItem(item domain.KnowledgeItem) string {
	switch {
	case item.Type == domain.KnowledgeTypeCompanyInfo:
		return "**Informações da Empresa:**\n" + item.Content
	case item.IsVideo():
		var b strings.Builder
		b.WriteString("[portfolio] **Vídeo:**\n")
		fmt.Fprintf(&b, "Título: %s\n", item.Title)
		fmt.Fprintf(&b, "Categoria: %s\n", item.Category)
		fmt.Fprintf(&b, "Cliente: %s\n", orNA(item.Client))
		fmt.Fprintf(&b, "Produção: %s\n", orNA(item.Production))
		fmt.Fprintf(&b, "Criação: %s\n", orNA(item.Creation))
		fmt.Fprintf(&b, "Descrição: %s\n", item.Description)
		fmt.Fprintf(&b, "[portfolio=%s]", item.VimeoID)
		return b.String()
	case item.Type == domain.KnowledgeTypePortfolioInfo:
		return "**Informações do Portfólio:**\n" + item.Content
	}
	return ""
}

// FormatKnowledge renders every row in order, separated by a blank line.
func FormatKnowledge(items []domain.KnowledgeItem) string {
	blocks := make([]string, len(items))
	for i, item := range items {
		blocks[i] = FormatItem(item)
	}
	return strings.Join(blocks, "\n\n")
}

// BuildSystemPrompt wraps a rendered knowledge block in the assistant persona.
func BuildSystemPrompt(knowledge string) (string, error) {
	var b strings.Builder
	if err := systemTemplate.Execute(&b, struct{ Knowledge string }{Knowledge: knowledge}); err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return b.String(), nil
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
