package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredibility(t *testing.T) {
	out, err := Credibility("Ocean warming", "https://example.org/a", "Sea temperatures rose.")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Rate the credibility of the following source from 1 (low) to 5 (high):"))
	assert.Contains(t, out, "Title: Ocean warming")
	assert.Contains(t, out, "URL: https://example.org/a")
	assert.Contains(t, out, "Snippet: Sea temperatures rose.")
	assert.Contains(t, out, "- Potential bias or commercial interests")
	assert.True(t, strings.HasSuffix(out, "Return only a number from 1 to 5."))
}

func TestCredibility_NoHTMLEscaping(t *testing.T) {
	out, err := Credibility("A & B <c>", "https://x.org/?a=1&b=2", "\"quoted\"")
	require.NoError(t, err)

	assert.Contains(t, out, "Title: A & B <c>")
	assert.Contains(t, out, "https://x.org/?a=1&b=2")
	assert.Contains(t, out, "\"quoted\"")
}

func TestCompare(t *testing.T) {
	out, err := Compare([]ComparedDocument{
		{Index: 1, Filename: "a.pdf", Text: "alpha text"},
		{Index: 2, Filename: "b.pdf", Text: "beta text"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "### 🤝 Common Points")
	assert.Contains(t, out, "### ⚡ Conflicting Points")
	assert.Contains(t, out, "**Document 1 (a.pdf):**\nalpha text")
	assert.Contains(t, out, "**Document 2 (b.pdf):**\nbeta text")
	assert.Less(t, strings.Index(out, "a.pdf"), strings.Index(out, "b.pdf"))
}

func TestAgentSystem(t *testing.T) {
	out, err := AgentSystem(AgentData{MaxCompare: 5, Files: []string{"a.pdf", "b.pdf"}})
	require.NoError(t, err)
	assert.Contains(t, out, "compare up to 5 uploaded PDFs")
	assert.Contains(t, out, "a.pdf, b.pdf")

	out, err = AgentSystem(AgentData{MaxCompare: 5})
	require.NoError(t, err)
	assert.NotContains(t, out, "Uploaded files")
}
