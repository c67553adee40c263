// Package pkg provides the core libraries for Canvaskit, the data engine of
// node-and-edge diagram canvases.
//
// # Overview
//
// A diagram is a flat list of nodes and edges. Groups are nodes too, and a
// node belongs to a group through its parent reference. The pkg directory is
// organized into four main areas:
//
//  1. [diagram] - The graph model and its pure engines ([diagram/group],
//     [diagram/align], [clipboard], [history])
//  2. [io] - The interchange document: validation, import, export and merge
//  3. [pipeline] and [session] - Orchestration of imports and editing
//  4. [cache], [store], [api], [config] - Infrastructure
//
// # Architecture
//
// The typical data flow of an import:
//
//	JSON / YAML document
//	         ↓
//	    [io] package (validate every field, parse, drop dangling edges)
//	         ↓
//	    [pipeline] package (ask Replace / Merge / Cancel, merge with offset)
//	         ↓
//	    [session] package (commit, record history)
//	         ↓
//	    JSON / YAML / DOT export
//
// # Quick Start
//
// Group two nodes and align them:
//
//	import (
//	    "github.com/matzehuels/canvaskit/pkg/diagram"
//	    "github.com/matzehuels/canvaskit/pkg/diagram/align"
//	    "github.com/matzehuels/canvaskit/pkg/diagram/group"
//	)
//
//	g, err := group.GroupNodes(g, []string{"api", "db"}, "group_1", "Backend")
//	if err != nil {
//	    return err
//	}
//	nodes, _ := g.Select([]string{"api", "db"})
//	g = g.WithNodes(align.Align(nodes, align.Top))
//
// # Infrastructure
//
// [cache] keeps parsed documents and the clipboard. FileCache serves the
// CLI, RedisCache serves a fleet of API servers, MemoryCache serves tests.
//
// [store] keeps named documents for the HTTP API on disk, in MongoDB or in
// memory.
//
// [observability] carries hooks for edits, imports and HTTP requests;
// [config] loads the TOML configuration shared by the CLI and the server.
package pkg
