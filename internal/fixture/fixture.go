// Package fixture holds the static fallback dataset: the fichas used when
// the store returns nothing, the competency template, the standard guide
// structure and the default announcements.
package fixture

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sena-tracker/internal/models"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type Dataset struct {
	Fichas             []models.Ficha        `yaml:"fichas"`
	CompetencyTemplate []models.Competency   `yaml:"competency_template"`
	GuideStructure     []models.GuideSection `yaml:"guide_structure"`
	Announcements      []models.Announcement `yaml:"announcements"`
}

// Default returns the embedded dataset.
func Default() (*Dataset, error) {
	return parse(fallbackYAML)
}

// Load reads the dataset from path, or the embedded one if path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read fixture %s", path)
	}
	ds, err := parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture %s", path)
	}
	return ds, nil
}

func parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, errors.Wrap(err, "decode fixture")
	}

	for i := range ds.Fichas {
		f := &ds.Fichas[i]
		if f.ID == "" {
			f.ID = f.Number
		}
		if f.Apprentices == nil {
			f.Apprentices = []models.Apprentice{}
		}
		if f.Documents == nil {
			f.Documents = []models.FichaDocument{}
		}
		if f.AttendanceHistory == nil {
			f.AttendanceHistory = []models.AttendanceRecord{}
		}
		for _, d := range f.Documents {
			if err := d.Validate(); err != nil {
				return nil, errors.Wrapf(err, "ficha %s", f.Number)
			}
		}
	}
	return &ds, nil
}

// CloneFichas returns a deep copy of the fallback fichas.
func (d *Dataset) CloneFichas() []models.Ficha {
	out := make([]models.Ficha, len(d.Fichas))
	for i, f := range d.Fichas {
		out[i] = f.Clone()
	}
	return out
}
