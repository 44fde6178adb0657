package props

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "single entry",
			input: "OPENAI_API_KEY=sk-test123\n",
			want:  map[string]string{"OPENAI_API_KEY": "sk-test123"},
		},
		{
			name:  "comments blanks and lines without equals are skipped",
			input: "# comment\n\n   \nnot a pair\n  # indented comment=x\nA=1\n",
			want:  map[string]string{"A": "1"},
		},
		{
			name:  "splits on first equals",
			input: "URL=https://example.com/?a=b\n",
			want:  map[string]string{"URL": "https://example.com/?a=b"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  A=1  \r\n\tB=2\n",
			want:  map[string]string{"A": "1", "B": "2"},
		},
		{
			name:  "inner whitespace kept",
			input: "A = 1\n",
			want:  map[string]string{"A ": " 1"},
		},
		{
			name:  "empty value",
			input: "A=\n",
			want:  map[string]string{"A": ""},
		},
		{
			name:  "last duplicate wins",
			input: "A=first\nA=second\nA=third\n",
			want:  map[string]string{"A": "third"},
		},
		{
			name:  "no trailing newline",
			input: "A=1",
			want:  map[string]string{"A": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Entries)
		})
	}
}

func TestParseLineTooLong(t *testing.T) {
	_, err := Parse(strings.NewReader("A=" + strings.Repeat("x", scanBufSize+1)))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "# local settings\nsdk.dir=/opt/android\nOPENAI_API_KEY=sk-test123\n")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, p.Path)

	v, ok := p.Get("sdk.dir")
	assert.True(t, ok)
	assert.Equal(t, "/opt/android", v)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.properties")

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigUnreadableError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, path, cfgErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), path)
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir())

	var cfgErr *ConfigUnreadableError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCredential(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		p, err := Load(writeFile(t, "OPENAI_API_KEY=sk-test123\n"))
		require.NoError(t, err)

		key, err := p.Credential(DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, "sk-test123", key)
	})

	t.Run("last assignment wins", func(t *testing.T) {
		p, err := Load(writeFile(t, "OPENAI_API_KEY=sk-old\nOPENAI_API_KEY=sk-new\n"))
		require.NoError(t, err)

		key, err := p.Credential(DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, "sk-new", key)
	})

	for name, contents := range map[string]string{
		"absent":    "OTHER=1\n",
		"empty":     "OPENAI_API_KEY=\n",
		"commented": "#OPENAI_API_KEY=sk-test123\n",
		"no equals": "OPENAI_API_KEY\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, contents)
			p, err := Load(path)
			require.NoError(t, err)

			key, err := p.Credential(DefaultKey)
			assert.Empty(t, key)

			var credErr *CredentialMissingError
			require.ErrorAs(t, err, &credErr)
			assert.Equal(t, DefaultKey, credErr.Key)
			assert.Equal(t, "OPENAI_API_KEY missing in "+path, err.Error())
		})
	}

	t.Run("parsed without a path", func(t *testing.T) {
		p, err := Parse(strings.NewReader(""))
		require.NoError(t, err)

		_, err = p.Credential(DefaultKey)
		assert.EqualError(t, err, "OPENAI_API_KEY missing in local.properties")
	})
}
