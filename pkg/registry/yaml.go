package registry

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/rejoice-framework/menuflow/internal/validate"
	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// actionDoc is the raw shape of one action entry before normalization.
// NextMenu and Later tolerate both string and structured forms, which is why
// they decode as any and are normalized below.
type actionDoc struct {
	Display  string  `mapstructure:"display"`
	NextMenu any     `mapstructure:"next_menu"`
	SaveAs   *string `mapstructure:"save_as"`
	Later    any     `mapstructure:"later"`
	Validate any     `mapstructure:"validate"`
}

type nextMenuDoc struct {
	Menu  string   `mapstructure:"menu"`
	Later []string `mapstructure:"later"`
}

// LoadYAML parses a name-keyed menu definition document. Action order is
// significant and is preserved exactly as declared, which is why decoding
// walks yaml.Node mappings instead of letting the library produce a map.
func (r *Registry) LoadYAML(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing menu document: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("menu document must be a name-keyed map, got %s", nodeKind(root))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		menu, err := decodeMenu(name, root.Content[i+1])
		if err != nil {
			return err
		}
		r.menus[name] = menu
	}
	return nil
}

func decodeMenu(name string, body *yaml.Node) (*domain.Menu, error) {
	if body.Kind != yaml.MappingNode {
		return nil, &domain.ConfigError{Menu: name, Detail: "definition must be a map"}
	}

	menu := &domain.Menu{Name: name}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i].Value
		value := body.Content[i+1]
		switch key {
		case "message":
			lines, err := decodeMessage(value)
			if err != nil {
				return nil, &domain.ConfigError{Menu: name, Detail: err.Error()}
			}
			menu.Message = lines
		case "actions":
			actions, err := decodeActions(name, value)
			if err != nil {
				return nil, err
			}
			menu.Actions = actions
		case "default_next_menu":
			menu.DefaultNextMenu = value.Value
		case "validate":
			var raw any
			if err := value.Decode(&raw); err != nil {
				return nil, &domain.ConfigError{Menu: name, Detail: "invalid validate value: " + err.Error()}
			}
			rules, err := validate.Parse(raw)
			if err != nil {
				return nil, &domain.ConfigError{Menu: name, Detail: err.Error()}
			}
			menu.Validate = rules
		default:
			return nil, &domain.ConfigError{Menu: name, Detail: fmt.Sprintf("unknown key %q", key)}
		}
	}
	return menu, nil
}

func decodeMessage(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return nil, fmt.Errorf("message list must contain only strings: %w", err)
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("message must be a string or a list of lines")
	}
}

func decodeActions(menu string, node *yaml.Node) (*domain.Actions, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &domain.ConfigError{Menu: menu, Detail: "actions must be a trigger-keyed map"}
	}

	actions := domain.NewActions()
	for i := 0; i+1 < len(node.Content); i += 2 {
		trigger := node.Content[i].Value
		var raw map[string]any
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return nil, &domain.ConfigError{Menu: menu, Detail: fmt.Sprintf("action %q must be a map: %v", trigger, err)}
		}

		var doc actionDoc
		if err := mapstructure.Decode(raw, &doc); err != nil {
			return nil, &domain.ConfigError{Menu: menu, Detail: fmt.Sprintf("action %q: %v", trigger, err)}
		}

		act, err := normalizeAction(trigger, doc)
		if err != nil {
			return nil, &domain.ConfigError{Menu: menu, Detail: err.Error()}
		}
		actions.Set(act)
	}
	return actions, nil
}

func normalizeAction(trigger string, doc actionDoc) (domain.Action, error) {
	act := domain.Action{Trigger: trigger, Display: doc.Display}

	switch next := doc.NextMenu.(type) {
	case string:
		act.Next.Name = next
	case map[string]any:
		var structured nextMenuDoc
		if err := mapstructure.Decode(next, &structured); err != nil {
			return act, fmt.Errorf("action %q: structured next_menu: %v", trigger, err)
		}
		act.Next.Name = structured.Menu
		act.Next.Later = structured.Later
	case nil:
		return act, fmt.Errorf("action %q is missing next_menu", trigger)
	default:
		return act, fmt.Errorf("action %q: next_menu must be a string or a structured descriptor, got %T", trigger, doc.NextMenu)
	}

	switch later := doc.Later.(type) {
	case nil:
	case string:
		act.Next.Later = append(act.Next.Later, later)
	case []any:
		for _, item := range later {
			s, ok := item.(string)
			if !ok {
				return act, fmt.Errorf("action %q: later entries must be menu names, got %T", trigger, item)
			}
			act.Next.Later = append(act.Next.Later, s)
		}
	default:
		return act, fmt.Errorf("action %q: later must be a menu name or a list, got %T", trigger, doc.Later)
	}

	if doc.SaveAs != nil {
		act.SaveAs = *doc.SaveAs
		act.HasSaveAs = true
	}

	if doc.Validate != nil {
		rules, err := validate.Parse(doc.Validate)
		if err != nil {
			return act, fmt.Errorf("action %q: %v", trigger, err)
		}
		act.Validate = rules
	}

	return act, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "document"
	}
}
