// Package io converts diagrams to and from the canvaskit interchange
// document, and merges imported diagrams into existing ones.
//
// # Document Format
//
// A document is a versioned JSON object (YAML is accepted as well):
//
//	{
//	  "version": "1.0",
//	  "name": "Checkout",
//	  "exportedAt": "2026-03-01T12:00:00Z",
//	  "nodes": [
//	    {
//	      "id": "vpc",
//	      "position": {"x": 0, "y": 0},
//	      "data": {"label": "VPC", "tags": [], "isGroup": true},
//	      "style": {"width": 400, "height": 300}
//	    },
//	    {
//	      "id": "api",
//	      "position": {"x": 40, "y": 50},
//	      "data": {"label": "API", "nodeType": "service", "tags": ["go"]},
//	      "parentId": "vpc",
//	      "extent": "parent"
//	    }
//	  ],
//	  "edges": [
//	    {"id": "e1", "source": "api", "target": "db", "data": {"label": "sql"}}
//	  ]
//	}
//
// Only the fields shown are written. Anything else a node carries, such as
// mind-map colours or selection state, stays out of the document.
//
// # Reading
//
// Reading is split in three steps so each failure mode is distinct:
//
//  1. [Decode] turns bytes into a generic value. Malformed input is one
//     INVALID_JSON error.
//  2. [Validate] checks the generic value structurally and reports every
//     problem with its field path, e.g. "nodes[3].data.label".
//  3. [Parse] maps a validated [Document] onto a [diagram.Graph], filling
//     defaults and dropping edges whose endpoints do not exist.
//
// [Read] and [ReadFile] run all three. Nothing is returned unless all
// three succeed, so a failed read never leaves a caller with half a graph.
//
// # Merging
//
// [Merge] appends an imported graph to an existing one, renaming colliding
// identifiers and shifting the imported root nodes by an offset. The
// existing graph is never altered.
//
// # Export
//
// [Export] builds a [Document] from a graph. [Write] encodes it as JSON,
// YAML or Graphviz DOT.
package io
