package types

// InstructionType tags the variant held by an Instruction
type InstructionType string

const (
	// InstructionSetModType routes the mod to a mod type handler
	InstructionSetModType InstructionType = "setmodtype"

	// InstructionCopy copies Source (relative to the archive root) to Destination
	InstructionCopy InstructionType = "copy"

	// InstructionAttribute stores Value under Key on the mod record
	InstructionAttribute InstructionType = "attribute"
)

// Instruction is a single install step handed to the host.
type Instruction struct {
	Type        InstructionType `json:"type" yaml:"type" toml:"type"`
	Source      string          `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Destination string          `json:"destination,omitempty" yaml:"destination,omitempty" toml:"destination,omitempty"`
	Key         string          `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Value       interface{}     `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// SetModType creates a setmodtype instruction
func SetModType(modType string) Instruction {
	return Instruction{Type: InstructionSetModType, Value: modType}
}

// Copy creates a copy instruction
func Copy(source, destination string) Instruction {
	return Instruction{Type: InstructionCopy, Source: source, Destination: destination}
}

// Attribute creates an attribute instruction
func Attribute(key string, value interface{}) Instruction {
	return Instruction{Type: InstructionAttribute, Key: key, Value: value}
}

// FilterInstructions returns the instructions of the given type, in order.
func FilterInstructions(instructions []Instruction, t InstructionType) []Instruction {
	var out []Instruction
	for _, inst := range instructions {
		if inst.Type == t {
			out = append(out, inst)
		}
	}
	return out
}

// FindAttribute returns the attribute instruction for key, if any.
func FindAttribute(instructions []Instruction, key string) (Instruction, bool) {
	for _, inst := range instructions {
		if inst.Type == InstructionAttribute && inst.Key == key {
			return inst, true
		}
	}
	return Instruction{}, false
}
