package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"ID", "Name"},
		Rows: []map[string]string{
			{"ID": "1", "Name": "Erika"},
			{"ID": "2", "Name": "comma, value"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name", lines[0])
	assert.Contains(t, lines[2], `"comma, value"`)
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	data := Dataset{
		Headers: []string{"ID", "Name"},
		Rows:    []map[string]string{{"ID": "1", "Name": "Erika"}},
	}

	out, err := NewPDFExporter().Render(data, "Testexport")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
