package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ComposeVersion is the format identifier written to every output document.
// It is fixed by the tool; version markers in remote documents describe their
// own manifest format and are ignored.
const ComposeVersion = "3.8"

// Render serializes the composite into YAML text with top-level keys in the
// fixed order version, services, then extension fragments under their
// original root-level names. Key order and scalar formatting inside entries
// survive from the source documents; no anchors or aliases are emitted.
func (c *Composite) Render() ([]byte, error) {
	services := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range c.Services {
		services.Content = append(services.Content, scalarKey(entry.Name), entry.Value.toNode())
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	root.Content = append(root.Content,
		scalarKey("version"),
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ComposeVersion, Style: yaml.DoubleQuotedStyle},
		scalarKey("services"),
		services,
	)
	for _, entry := range c.Extensions {
		root.Content = append(root.Content, scalarKey(entry.Name), entry.Value.toNode())
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("marshal composite: %w", err)
	}
	return data, nil
}
