package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

func TestFormatItem_CompanyInfo(t *testing.T) {
	got := FormatItem(domain.KnowledgeItem{Type: domain.KnowledgeTypeCompanyInfo, Content: "Fundada em 2004."})
	assert.Equal(t, "**Informações da Empresa:**\nFundada em 2004.", got)
}

func TestFormatItem_PortfolioInfo(t *testing.T) {
	got := FormatItem(domain.KnowledgeItem{Type: domain.KnowledgeTypePortfolioInfo, Content: "Mais de 500 vídeos."})
	assert.Equal(t, "**Informações do Portfólio:**\nMais de 500 vídeos.", got)
}

func TestFormatItem_Video(t *testing.T) {
	got := FormatItem(domain.KnowledgeItem{
		Type:        domain.KnowledgeTypeVideo,
		Title:       "Treinamento de Vendas",
		Category:    "videoaulas",
		Client:      "Loja X",
		Description: "Série de videoaulas.",
		VimeoID:     "123456",
	})

	want := "[portfolio] **Vídeo:**\n" +
		"Título: Treinamento de Vendas\n" +
		"Categoria: videoaulas\n" +
		"Cliente: Loja X\n" +
		"Produção: N/A\n" +
		"Criação: N/A\n" +
		"Descrição: Série de videoaulas.\n" +
		"[portfolio=123456]"
	assert.Equal(t, want, got)
}

func TestFormatItem_CompanyTypeWinsOverVimeoID(t *testing.T) {
	got := FormatItem(domain.KnowledgeItem{Type: domain.KnowledgeTypeCompanyInfo, Content: "c", VimeoID: "1"})
	assert.True(t, strings.HasPrefix(got, "**Informações da Empresa:**"))
}

func TestFormatItem_Unknown(t *testing.T) {
	assert.Empty(t, FormatItem(domain.KnowledgeItem{Type: "other", Content: "x"}))
}

func TestFormatKnowledge_JoinsWithBlankLine(t *testing.T) {
	got := FormatKnowledge([]domain.KnowledgeItem{
		{Type: domain.KnowledgeTypeCompanyInfo, Content: "a"},
		{Type: domain.KnowledgeTypePortfolioInfo, Content: "b"},
	})
	assert.Equal(t, "**Informações da Empresa:**\na\n\n**Informações do Portfólio:**\nb", got)
	assert.Empty(t, FormatKnowledge(nil))
}

func TestBuildSystemPrompt(t *testing.T) {
	got, err := BuildSystemPrompt("BLOCO-DE-CONHECIMENTO")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "Você é a Cacilda"))
	assert.Contains(t, got, "**Base de Conhecimento e Portfólio:**\nBLOCO-DE-CONHECIMENTO\n")
	assert.Contains(t, got, "[highlight]")
	assert.Contains(t, got, "[portfolio=VIDEO_ID]")
	assert.Contains(t, got, "[contact]")
	assert.Contains(t, got, "#videoaulas")
	assert.NotContains(t, got, "{{")
}

func TestBuildSystemPrompt_DoesNotEscapeContent(t *testing.T) {
	got, err := BuildSystemPrompt(`<b>"Cliente" & Co</b>`)
	require.NoError(t, err)
	assert.Contains(t, got, `<b>"Cliente" & Co</b>`)
}
