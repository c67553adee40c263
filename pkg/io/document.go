package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Version is the document format version written by [Export].
const Version = "1.0"

// DefaultName is given to documents that carry no name.
const DefaultName = "Imported Diagram"

// ExtentParent marks a node as clamped to its parent group.
const ExtentParent = "parent"

// Document is the interchange representation of a diagram.
type Document struct {
	Version    string `json:"version" yaml:"version"`
	Name       string `json:"name" yaml:"name"`
	ExportedAt string `json:"exportedAt" yaml:"exportedAt"`
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Nodes      []Node `json:"nodes" yaml:"nodes"`
	Edges      []Edge `json:"edges" yaml:"edges"`
}

// Node is the persisted form of a diagram node.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Position Position `json:"position" yaml:"position"`
	Data     NodeData `json:"data" yaml:"data"`
	Style    *Style   `json:"style,omitempty" yaml:"style,omitempty"`
	ParentID string   `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Extent   string   `json:"extent,omitempty" yaml:"extent,omitempty"`
}

// Position is a node's top-left corner.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Style carries the persisted node dimensions.
type Style struct {
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// NodeData is the allow-listed node payload.
type NodeData struct {
	Label    string   `json:"label" yaml:"label"`
	NodeType string   `json:"nodeType,omitempty" yaml:"nodeType,omitempty"`
	Tags     []string `json:"tags" yaml:"tags"`
	IsGroup  bool     `json:"isGroup,omitempty" yaml:"isGroup,omitempty"`
	Volumes  []Volume `json:"volumes,omitempty" yaml:"volumes,omitempty"`
}

// Volume is a persisted storage mount.
type Volume struct {
	Name      string `json:"name" yaml:"name"`
	MountPath string `json:"mountPath" yaml:"mountPath"`
}

// Edge is the persisted form of a diagram edge.
type Edge struct {
	ID           string    `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	Target       string    `json:"target" yaml:"target"`
	SourceHandle string    `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	TargetHandle string    `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
	Data         *EdgeData `json:"data,omitempty" yaml:"data,omitempty"`
}

// EdgeData is the allow-listed edge payload.
type EdgeData struct {
	ColorFromTarget bool   `json:"colorFromTarget,omitempty" yaml:"colorFromTarget,omitempty"`
	Label           string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "dot", "gv":
		return FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want json, yaml or dot)", s)
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}
