package manifest

import "gopkg.in/yaml.v3"

// DefaultRoot is the root type assumed when a manifest does not name one.
const DefaultRoot = "java.lang.Object"

// File is the top-level manifest document.
type File struct {
	Root  string `yaml:"root,omitempty"`
	Types []Type `yaml:"types"`
}

// Type describes one type of the model.
type Type struct {
	ID         string   `yaml:"id"`
	Interfaces []string `yaml:"interfaces,omitempty"`
	Extends    string   `yaml:"extends,omitempty"`
	// Provider marks the type as an implementation to register. The key
	// alone is the marker, so `provider:` with no value still registers.
	Provider *Provider `yaml:"provider,omitempty"`
}

// UnmarshalYAML decodes a Type and keeps the provider marker when the
// provider key is present with a null value.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	type plain Type
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = Type(p)

	if t.Provider == nil && node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "provider" {
				t.Provider = &Provider{}
				break
			}
		}
	}
	return nil
}

// Provider is the registration marker.
type Provider struct {
	Contracts []string `yaml:"contracts,omitempty"`
}
