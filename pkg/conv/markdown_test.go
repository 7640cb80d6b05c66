package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text",
			input:    "Hello world",
			expected: "<p>Hello world</p>\n",
		},
		{
			name:     "bold text",
			input:    "**bold**",
			expected: "<p><strong>bold</strong></p>\n",
		},
		{
			name:     "italic text",
			input:    "*italic*",
			expected: "<p><em>italic</em></p>\n",
		},
		{
			name:     "script is stripped",
			input:    "<script>alert(1)</script>",
			expected: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToHTML([]byte(tt.input)))
		})
	}
}

func TestMarkdownToText(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		out, err := MarkdownToText("  \n ")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("plain sentence", func(t *testing.T) {
		out, err := MarkdownToText("It is a Finnish epic.")
		require.NoError(t, err)
		assert.Equal(t, "It is a Finnish epic.", out)
	})

	t.Run("emphasis keeps words", func(t *testing.T) {
		out, err := MarkdownToText("The **Sampo** is a magic mill.")
		require.NoError(t, err)
		assert.Contains(t, out, "Sampo")
		assert.Contains(t, out, "magic mill.")
		assert.NotContains(t, out, "<strong>")
	})

	t.Run("list items", func(t *testing.T) {
		out, err := MarkdownToText("- Väinämöinen\n- Ilmarinen\n- Lemminkäinen")
		require.NoError(t, err)
		assert.Contains(t, out, "Väinämöinen")
		assert.Contains(t, out, "Ilmarinen")
		assert.Contains(t, out, "Lemminkäinen")
	})

	t.Run("html escaped content", func(t *testing.T) {
		out, err := MarkdownToText("a <script>alert(1)</script> b")
		require.NoError(t, err)
		assert.NotContains(t, out, "alert")
	})
}
