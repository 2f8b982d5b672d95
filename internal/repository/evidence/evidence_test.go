package evidence

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	s := Store{Dir: t.TempDir(), BaseURL: "http://localhost:8080/evidencias/"}
	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF"))

	url, err := s.Write("../2503412", "2024-05-20", "data:application/pdf;base64,"+pdf)
	require.NoError(t, err)

	name := strings.TrimPrefix(url, "http://localhost:8080/evidencias/")
	assert.True(t, strings.HasPrefix(name, "asistencia____2503412_2024-05-20_"))
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestWriteRejectsInvalidBase64(t *testing.T) {
	_, err := Store{Dir: t.TempDir()}.Write("1", "2024-05-20", "not base64!")
	assert.Error(t, err)
}
