package diagram

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Details is the kind-specific payload of a node. The set of variants is
// closed: only types in this package implement it.
type Details interface {
	// Kind returns the diagram kind this payload belongs to.
	Kind() Kind
	clone() Details
}

// ArchitectureDetails carries infrastructure attributes of architecture nodes.
type ArchitectureDetails struct {
	Volumes []Volume `json:"volumes,omitempty"`
}

// MindMapDetails carries the presentation state of a mind-map topic.
type MindMapDetails struct {
	Color     string `json:"color,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty"`
}

// Shape is a flowchart symbol.
type Shape string

const (
	ShapeProcess  Shape = "process"
	ShapeDecision Shape = "decision"
	ShapeTerminal Shape = "terminal"
	ShapeData     Shape = "data"
)

// FlowchartDetails carries the symbol of a flowchart step.
type FlowchartDetails struct {
	Shape Shape `json:"shape,omitempty"`
}

func (ArchitectureDetails) Kind() Kind { return KindArchitecture }
func (MindMapDetails) Kind() Kind      { return KindMindMap }
func (FlowchartDetails) Kind() Kind    { return KindFlowchart }

func (d ArchitectureDetails) clone() Details {
	return ArchitectureDetails{Volumes: slices.Clone(d.Volumes)}
}
func (d MindMapDetails) clone() Details   { return d }
func (d FlowchartDetails) clone() Details { return d }

// VolumesOf returns the volumes of an architecture node, or nil.
func VolumesOf(d Details) []Volume {
	if a, ok := d.(ArchitectureDetails); ok {
		return a.Volumes
	}
	return nil
}

// nodeDataJSON is the persisted shape of NodeData: details are tagged
// with their kind so they can be restored to the right variant.
type nodeDataJSON struct {
	Label       string          `json:"label"`
	NodeType    TypeID          `json:"nodeType,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	IsGroup     bool            `json:"isGroup,omitempty"`
	DetailsKind Kind            `json:"detailsKind,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d NodeData) MarshalJSON() ([]byte, error) {
	out := nodeDataJSON{
		Label:    d.Label,
		NodeType: d.NodeType,
		Tags:     d.Tags,
		IsGroup:  d.IsGroup,
	}
	if d.Details != nil {
		raw, err := json.Marshal(d.Details)
		if err != nil {
			return nil, fmt.Errorf("marshal details: %w", err)
		}
		out.DetailsKind = d.Details.Kind()
		out.Details = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *NodeData) UnmarshalJSON(data []byte) error {
	var in nodeDataJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = NodeData{
		Label:    in.Label,
		NodeType: in.NodeType,
		Tags:     in.Tags,
		IsGroup:  in.IsGroup,
	}
	if in.DetailsKind == "" || len(in.Details) == 0 {
		return nil
	}

	var err error
	switch in.DetailsKind {
	case KindArchitecture:
		var a ArchitectureDetails
		err = json.Unmarshal(in.Details, &a)
		d.Details = a
	case KindMindMap:
		var m MindMapDetails
		err = json.Unmarshal(in.Details, &m)
		d.Details = m
	case KindFlowchart:
		var f FlowchartDetails
		err = json.Unmarshal(in.Details, &f)
		d.Details = f
	default:
		return fmt.Errorf("unknown details kind %q", in.DetailsKind)
	}
	return err
}
