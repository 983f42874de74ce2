package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Run("known prompts load", func(t *testing.T) {
		for _, key := range []struct{ file, key string }{
			{"analysis.json", "analyze-posting"},
			{"tailoring.json", "tailor-resume"},
			{"tailoring.json", "draft-cover-letter"},
		} {
			prompt, err := Get(key.file, key.key)
			require.NoError(t, err, "%s/%s", key.file, key.key)
			assert.NotEmpty(t, prompt)
		}
	})

	t.Run("unknown key errors", func(t *testing.T) {
		_, err := Get("analysis.json", "no-such-prompt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no-such-prompt")
	})

	t.Run("unknown file errors", func(t *testing.T) {
		_, err := Get("missing.json", "analyze-posting")
		require.Error(t, err)
	})
}

func TestFormat(t *testing.T) {
	template := MustGet("analysis.json", "analyze-posting")
	out := Format(template, map[string]string{"Content": "ACME SWE internship posting"})
	assert.Contains(t, out, "ACME SWE internship posting")
	assert.False(t, strings.Contains(out, "{{.Content}}"), "placeholder must be substituted")
}
