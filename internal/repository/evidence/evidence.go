// Package evidence stores attendance evidence PDFs on disk for the local
// stores. Files are served under BaseURL by the web layer.
package evidence

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Store struct {
	Dir     string
	BaseURL string
}

// Write decodes a base64 PDF (plain or data URL) and returns its URL.
func (s Store) Write(fichaID, date, pdfBase64 string) (string, error) {
	payload := pdfBase64
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errors.Wrap(err, "decode evidence pdf")
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", s.Dir)
	}
	name := "asistencia_" + safe(fichaID) + "_" + safe(date) + "_" + uuid.NewString() + ".pdf"
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", errors.Wrap(err, "write evidence pdf")
	}
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + name, nil
}

// safe keeps file names inside Dir.
func safe(part string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			return r
		default:
			return '_'
		}
	}, part)
}
