package draft

import (
	_ "embed"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed persona.yml
var defaultPersonaRaw []byte

// Persona describes the house style injected into the draft prompt
type Persona struct {
	Name       string   `yaml:"name"`
	Mission    string   `yaml:"mission"`
	Mandates   []string `yaml:"mandates"`
	NoExamples string   `yaml:"no_examples"`
}

// Validate checks the persona is usable as prompt material
func (p *Persona) Validate() error {
	if p.Name == "" {
		return goerr.New("persona name is empty")
	}
	if len(p.Mandates) == 0 {
		return goerr.New("persona has no style mandates")
	}
	if p.NoExamples == "" {
		return goerr.New("persona no_examples placeholder is empty")
	}
	return nil
}

// DefaultPersona returns the embedded house style
func DefaultPersona() *Persona {
	var p Persona
	// The embedded file is validated by tests; a parse failure here is a
	// build defect
	if err := yaml.Unmarshal(defaultPersonaRaw, &p); err != nil {
		panic("embedded persona is malformed: " + err.Error())
	}
	return &p
}

// LoadPersona reads a persona override from a YAML file
func LoadPersona(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read persona file", goerr.V("path", path))
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, goerr.Wrap(err, "failed to parse persona file", goerr.V("path", path))
	}
	if err := p.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid persona file", goerr.V("path", path))
	}

	return &p, nil
}
