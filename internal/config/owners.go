package config

import (
	"os"

	"pet-owners/internal/domain/owners"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadOwners lee el documento YAML de owners desde disco.
func LoadOwners(path string) ([]owners.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read owners file: %s", path)
	}
	return ParseOwners(data)
}

// ParseOwners decodifica la sección "owners". Acepta un mapa (clave => entrada)
// o una lista. En el mapa se respeta el orden del documento.
//
//	owners:
//	  fred:
//	    name: Fred
//	    age: 35
//	    pets: [Dino]
func ParseOwners(data []byte) ([]owners.Configuration, error) {
	var doc struct {
		Owners yaml.Node `yaml:"owners"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode owners document")
	}

	node := doc.Owners
	out := make([]owners.Configuration, 0)

	switch node.Kind {
	case 0:
		// sin sección owners
		return out, nil

	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			entry, err := decodeEntry(node.Content[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "owners.%s", key)
			}
			if entry.Name == "" {
				entry.Name = key
			}
			out = append(out, entry)
		}

	case yaml.SequenceNode:
		for i, n := range node.Content {
			entry, err := decodeEntry(n)
			if err != nil {
				return nil, errors.Wrapf(err, "owners[%d]", i)
			}
			if entry.Name == "" {
				return nil, errors.Errorf("owners[%d]: name is required", i)
			}
			out = append(out, entry)
		}

	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return out, nil
		}
		return nil, errors.New("owners must be a mapping or a sequence")

	default:
		return nil, errors.New("owners must be a mapping or a sequence")
	}

	return out, nil
}

func decodeEntry(n *yaml.Node) (owners.Configuration, error) {
	var c owners.Configuration
	if err := n.Decode(&c); err != nil {
		return owners.Configuration{}, errors.Wrap(err, "invalid owner entry")
	}
	if c.Age < 0 {
		return owners.Configuration{}, errors.Errorf("age must be non-negative, got %d", c.Age)
	}
	if c.Pets == nil {
		c.Pets = []string{}
	}
	return c, nil
}
