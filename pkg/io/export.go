package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Export builds the interchange document for g. Only allow-listed fields
// are carried over. An empty kind is omitted from the document.
func Export(g diagram.Graph, name string, kind diagram.Kind, at time.Time) Document {
	doc := Document{
		Version:    Version,
		Name:       name,
		ExportedAt: at.UTC().Format(time.RFC3339),
		Kind:       string(kind),
		Nodes:      make([]Node, 0, len(g.Nodes)),
		Edges:      make([]Edge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, exportNode(n))
	}
	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, exportEdge(e))
	}
	return doc
}

func exportNode(n diagram.Node) Node {
	out := Node{
		ID:       n.ID,
		Position: Position{X: n.Placement.X, Y: n.Placement.Y},
		Data: NodeData{
			Label:    n.Data.Label,
			NodeType: string(n.Data.NodeType),
			Tags:     append([]string{}, n.Data.Tags...),
			IsGroup:  n.IsGroup(),
		},
	}
	for _, v := range diagram.VolumesOf(n.Data.Details) {
		out.Data.Volumes = append(out.Data.Volumes, Volume{Name: v.Name, MountPath: v.MountPath})
	}
	if n.Size != nil {
		out.Style = &Style{Width: n.Size.Width, Height: n.Size.Height}
	}
	if n.Placement.IsRelative() {
		out.ParentID = n.Parent()
		out.Extent = ExtentParent
	}
	return out
}

func exportEdge(e diagram.Edge) Edge {
	out := Edge{
		ID:           e.ID,
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
	}
	if e.Data != nil && (e.Data.ColorFromTarget || e.Data.Label != "") {
		out.Data = &EdgeData{ColorFromTarget: e.Data.ColorFromTarget, Label: e.Data.Label}
	}
	return out
}

// Write encodes doc to w in the given format.
func Write(ctx context.Context, doc Document, format Format, w io.Writer) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(doc, w)
	case FormatYAML:
		return WriteYAML(doc, w)
	case FormatDOT:
		return WriteDOT(ctx, doc, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// WriteJSON encodes doc as indented JSON.
// The output can be read back with [Read].
func WriteJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes doc as YAML with two-space indentation.
func WriteYAML(doc Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes doc to path. The format follows the file extension.
func ExportFile(ctx context.Context, doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(ctx, doc, FormatFromPath(path), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
