package manifest

// Manifest describes one template set: its identity plus the variables a
// user supplies when baking a project from it.
type Manifest struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Version     string     `yaml:"version" json:"version"`
	Variables   []Variable `yaml:"variables" json:"variables"`
}

// Variable declares a single prompt variable.
type Variable struct {
	Name        string   `yaml:"name" json:"name"`
	Kind        string   `yaml:"kind" json:"kind"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Default     string   `yaml:"default,omitempty" json:"default,omitempty"`
	Choices     []string `yaml:"choices,omitempty" json:"choices,omitempty"`
	Required    bool     `yaml:"required,omitempty" json:"required,omitempty"`
}

// Variable kind constants for the kind discriminator field.
const (
	KindString = "string"
	KindBool   = "bool"
	KindInt    = "int"
	KindChoice = "choice"
	KindDate   = "date"
)

// ValidKinds contains all valid variable kind values.
var ValidKinds = []string{
	KindString,
	KindBool,
	KindInt,
	KindChoice,
	KindDate,
}

// Lookup returns the variable with the given name, or nil.
func (m *Manifest) Lookup(name string) *Variable {
	for i := range m.Variables {
		if m.Variables[i].Name == name {
			return &m.Variables[i]
		}
	}
	return nil
}
