// Package diagram defines the node/edge graph shared by every canvaskit engine.
//
// # Overview
//
// A [Graph] is a plain snapshot: a slice of [Node] values and a slice of
// [Edge] values. Engines never retain references to a graph; every operation
// takes slices and returns new slices, so a recorded snapshot is immutable
// once it has been cloned into history.
//
// # Placement
//
// A node's position is always expressed in the coordinate space of its
// parent. [Placement] makes that explicit:
//
//	diagram.Absolute(diagram.Point{X: 10, Y: 20})          // root node
//	diagram.Relative("group_1", diagram.Point{X: 40, Y: 50}) // inside group_1
//
// The containment mode is derived from the placement ([Node.Containment]), so
// a node can never claim to be clamped to a parent it does not have.
//
// # Groups
//
// A group is a node of type [TypeGroup]. Children reference it through their
// placement. Containment must form a forest; [Check] reports cycles, missing
// parents, and parents that are not groups.
//
// # Node Details
//
// Diagram kinds carry different per-node payloads. [Details] is a closed set
// of variants ([ArchitectureDetails], [MindMapDetails], [FlowchartDetails]),
// so a switch over a node's details is exhaustive.
//
// # Kinds
//
// The set of diagram kinds the application supports is a [Registry] built at
// startup with [NewRegistry] and passed to whatever needs it.
package diagram
