package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/domain"
)

//go:embed stations.yaml
var defaultCatalog []byte

// Catalog is the static description of the input: which buoys map to which
// region, how data files are named and how their lines are laid out.
type Catalog struct {
	FileSuffix    string            `yaml:"file_suffix" validate:"required"`
	IDLength      int               `yaml:"id_length" validate:"required,min=1,max=16"`
	Columns       []string          `yaml:"columns" validate:"required,min=1,dive,required"`
	MissingValues []string          `yaml:"missing_values" validate:"required,min=1,dive,required"`
	Buoys         map[string]string `yaml:"buoys" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

var validate = validator.New()

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog. Unknown keys are rejected.
func ParseCatalog(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode station catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog's structure and that every buoy id has the
// configured length and every column is one the parser understands.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid station catalog: %w", err)
	}
	for id := range c.Buoys {
		if len(id) != c.IDLength {
			return fmt.Errorf("invalid station catalog: buoy id %q is not %d characters", id, c.IDLength)
		}
	}
	if _, err := c.Schema(); err != nil {
		return fmt.Errorf("invalid station catalog: %w", err)
	}
	return nil
}

// Schema builds the line parser described by the catalog.
func (c *Catalog) Schema() (*domain.Schema, error) {
	return domain.NewSchema(c.Columns, c.MissingValues)
}

// Region returns the region a buoy id is assigned to.
func (c *Catalog) Region(buoyID string) (string, bool) {
	r, ok := c.Buoys[buoyID]
	return r, ok
}

// BuoyIDs returns the configured ids in sorted order.
func (c *Catalog) BuoyIDs() []string {
	ids := make([]string, 0, len(c.Buoys))
	for id := range c.Buoys {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
