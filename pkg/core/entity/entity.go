// Package entity defines entity types and edge kinds.
//
// An entity type is either one of the built-in defaults below or a custom id
// supplied by the user. Both are plain strings so custom types can be used
// directly as theme_types_styles keys.
package entity

import (
	"fmt"

	"github.com/matzehuels/disposition/pkg/core/id"
)

// Type names an entity type.
type Type string

// Built-in entity types.
const (
	ContainerInbuilt   Type = "container_inbuilt"
	ThingDefault       Type = "type_thing_default"
	TagDefault         Type = "type_tag_default"
	ProcessDefault     Type = "type_process_default"
	ProcessStepDefault Type = "type_process_step_default"

	DependencyEdgeSequenceDefault          Type = "type_dependency_edge_sequence_default"
	DependencyEdgeCyclicDefault            Type = "type_dependency_edge_cyclic_default"
	DependencyEdgeSymmetricDefault         Type = "type_dependency_edge_symmetric_default"
	DependencyEdgeSequenceForwardDefault   Type = "type_dependency_edge_sequence_forward_default"
	DependencyEdgeCyclicForwardDefault     Type = "type_dependency_edge_cyclic_forward_default"
	DependencyEdgeSymmetricForwardDefault  Type = "type_dependency_edge_symmetric_forward_default"
	DependencyEdgeSymmetricReverseDefault  Type = "type_dependency_edge_symmetric_reverse_default"
	InteractionEdgeSequenceDefault         Type = "type_interaction_edge_sequence_default"
	InteractionEdgeCyclicDefault           Type = "type_interaction_edge_cyclic_default"
	InteractionEdgeSymmetricDefault        Type = "type_interaction_edge_symmetric_default"
	InteractionEdgeSequenceForwardDefault  Type = "type_interaction_edge_sequence_forward_default"
	InteractionEdgeCyclicForwardDefault    Type = "type_interaction_edge_cyclic_forward_default"
	InteractionEdgeSymmetricForwardDefault Type = "type_interaction_edge_symmetric_forward_default"
	InteractionEdgeSymmetricReverseDefault Type = "type_interaction_edge_symmetric_reverse_default"
)

var builtin = map[Type]bool{
	ContainerInbuilt: true, ThingDefault: true, TagDefault: true,
	ProcessDefault: true, ProcessStepDefault: true,
	DependencyEdgeSequenceDefault: true, DependencyEdgeCyclicDefault: true,
	DependencyEdgeSymmetricDefault: true, DependencyEdgeSequenceForwardDefault: true,
	DependencyEdgeCyclicForwardDefault: true, DependencyEdgeSymmetricForwardDefault: true,
	DependencyEdgeSymmetricReverseDefault: true, InteractionEdgeSequenceDefault: true,
	InteractionEdgeCyclicDefault: true, InteractionEdgeSymmetricDefault: true,
	InteractionEdgeSequenceForwardDefault: true, InteractionEdgeCyclicForwardDefault: true,
	InteractionEdgeSymmetricForwardDefault: true, InteractionEdgeSymmetricReverseDefault: true,
}

// Custom returns the entity type for a user id.
func Custom(i id.ID) Type { return Type(i) }

// IsBuiltin reports whether t is one of the well-known types.
func (t Type) IsBuiltin() bool { return builtin[t] }

// UnmarshalText validates the type name.
func (t *Type) UnmarshalText(b []byte) error {
	if !id.Valid(string(b)) {
		return fmt.Errorf("invalid entity type %q", b)
	}
	*t = Type(b)
	return nil
}

// EdgeKind is how an edge group expands into edges.
type EdgeKind string

const (
	Cyclic    EdgeKind = "cyclic"
	Sequence  EdgeKind = "sequence"
	Symmetric EdgeKind = "symmetric"
)

// UnmarshalText accepts the three kinds.
func (k *EdgeKind) UnmarshalText(b []byte) error {
	switch EdgeKind(b) {
	case Cyclic, Sequence, Symmetric:
		*k = EdgeKind(b)
		return nil
	}
	return fmt.Errorf("invalid edge kind %q (must be cyclic, sequence or symmetric)", b)
}

// Direction is the role an expanded edge plays in its group.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// EdgeGroupType returns the group-level default type for kind.
func EdgeGroupType(interaction bool, kind EdgeKind) Type {
	return edgeType(interaction, kind, "")
}

// EdgeDirectionType returns the per-edge default type for kind and direction.
func EdgeDirectionType(interaction bool, kind EdgeKind, dir Direction) Type {
	if dir == Reverse {
		return edgeType(interaction, kind, "_reverse")
	}
	return edgeType(interaction, kind, "_forward")
}

func edgeType(interaction bool, kind EdgeKind, suffix string) Type {
	prefix := "type_dependency_edge_"
	if interaction {
		prefix = "type_interaction_edge_"
	}
	return Type(prefix + string(kind) + suffix + "_default")
}
