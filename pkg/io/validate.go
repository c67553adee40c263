package io

import (
	"fmt"
	"math"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Validate checks a decoded document structurally and returns every
// problem found. It never panics, whatever the shape of raw.
//
// Required:
//   - version: a string
//   - nodes, edges: arrays
//   - each node: id, a position object with numeric x and y, and a data
//     object with a string label and, unless data.isGroup is true, a
//     string nodeType
//   - each edge: id, source and target strings
//
// Node and edge identifiers share one namespace and must be unique across
// the document. Optional fields, when present and not null, must have the
// documented type. Validate does not check that edge endpoints or parent
// references resolve; [Parse] handles those.
func Validate(raw any) errors.ValidationErrors {
	var errs errors.ValidationErrors

	doc, ok := raw.(map[string]any)
	if !ok {
		errs.Add("", "document must be an object")
		return errs
	}

	switch v, present := doc["version"]; {
	case !present || v == nil:
		errs.Add("version", "is required")
	case !isString(v):
		errs.Add("version", "must be a string")
	}
	optionalString(&errs, doc, "", "name")
	optionalString(&errs, doc, "", "exportedAt")
	optionalString(&errs, doc, "", "kind")

	seen := make(map[string]string)
	if nodes, ok := array(&errs, doc, "nodes"); ok {
		for i, n := range nodes {
			path := fmt.Sprintf("nodes[%d]", i)
			validateNode(&errs, path, n)
			uniqueID(&errs, seen, path, n)
		}
	}
	if edges, ok := array(&errs, doc, "edges"); ok {
		for i, e := range edges {
			path := fmt.Sprintf("edges[%d]", i)
			validateEdge(&errs, path, e)
			uniqueID(&errs, seen, path, e)
		}
	}
	return errs
}

// uniqueID records the id of raw in seen, reporting it if an earlier node
// or edge already used it.
func uniqueID(errs *errors.ValidationErrors, seen map[string]string, path string, raw any) {
	m, ok := raw.(map[string]any)
	if !ok {
		return
	}
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return
	}
	if first, dup := seen[id]; dup {
		errs.Add(path+".id", "duplicate id %q, first used by %s", id, first)
		return
	}
	seen[id] = path
}

func validateNode(errs *errors.ValidationErrors, path string, raw any) {
	n, ok := raw.(map[string]any)
	if !ok {
		errs.Add(path, "must be an object")
		return
	}
	requiredString(errs, n, path, "id")

	if pos, ok := object(errs, n, path, "position", true); ok {
		for _, axis := range []string{"x", "y"} {
			if !isNumber(pos[axis]) {
				errs.Add(path+".position."+axis, "must be a number")
			}
		}
	}

	if data, ok := object(errs, n, path, "data", true); ok {
		dp := path + ".data"
		if !isString(data["label"]) {
			errs.Add(dp+".label", "must be a string")
		}
		isGroup := false
		switch g := data["isGroup"].(type) {
		case nil:
		case bool:
			isGroup = g
		default:
			errs.Add(dp+".isGroup", "must be a boolean")
		}
		if isGroup {
			optionalString(errs, data, dp, "nodeType")
		} else if !isString(data["nodeType"]) {
			errs.Add(dp+".nodeType", "is required unless the node is a group")
		}
		stringArray(errs, data, dp, "tags")
		validateVolumes(errs, data, dp)
	}

	if style, ok := object(errs, n, path, "style", false); ok {
		for _, dim := range []string{"width", "height"} {
			if v, present := style[dim]; present && v != nil && !isNumber(v) {
				errs.Add(path+".style."+dim, "must be a number")
			}
		}
	}
	optionalString(errs, n, path, "parentId")
	optionalString(errs, n, path, "extent")
}

func validateVolumes(errs *errors.ValidationErrors, data map[string]any, path string) {
	v, present := data["volumes"]
	if !present || v == nil {
		return
	}
	vols, ok := v.([]any)
	if !ok {
		errs.Add(path+".volumes", "must be an array")
		return
	}
	for i, raw := range vols {
		vp := fmt.Sprintf("%s.volumes[%d]", path, i)
		vol, ok := raw.(map[string]any)
		if !ok {
			errs.Add(vp, "must be an object")
			continue
		}
		optionalString(errs, vol, vp, "name")
		optionalString(errs, vol, vp, "mountPath")
	}
}

func validateEdge(errs *errors.ValidationErrors, path string, raw any) {
	e, ok := raw.(map[string]any)
	if !ok {
		errs.Add(path, "must be an object")
		return
	}
	requiredString(errs, e, path, "id")
	requiredString(errs, e, path, "source")
	requiredString(errs, e, path, "target")
	optionalString(errs, e, path, "sourceHandle")
	optionalString(errs, e, path, "targetHandle")

	if data, ok := object(errs, e, path, "data", false); ok {
		dp := path + ".data"
		if v, present := data["colorFromTarget"]; present && v != nil {
			if _, ok := v.(bool); !ok {
				errs.Add(dp+".colorFromTarget", "must be a boolean")
			}
		}
		optionalString(errs, data, dp, "label")
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func array(errs *errors.ValidationErrors, m map[string]any, key string) ([]any, bool) {
	a, ok := m[key].([]any)
	if !ok {
		errs.Add(key, "must be an array")
	}
	return a, ok
}

func object(errs *errors.ValidationErrors, m map[string]any, path, key string, required bool) (map[string]any, bool) {
	v, present := m[key]
	if !present || v == nil {
		if required {
			errs.Add(join(path, key), "must be an object")
		}
		return nil, false
	}
	o, ok := v.(map[string]any)
	if !ok {
		errs.Add(join(path, key), "must be an object")
	}
	return o, ok
}

func requiredString(errs *errors.ValidationErrors, m map[string]any, path, key string) {
	s, ok := m[key].(string)
	switch {
	case !ok:
		errs.Add(join(path, key), "must be a string")
	case s == "":
		errs.Add(join(path, key), "must not be empty")
	}
}

func optionalString(errs *errors.ValidationErrors, m map[string]any, path, key string) {
	if v, present := m[key]; present && v != nil && !isString(v) {
		errs.Add(join(path, key), "must be a string")
	}
}

func stringArray(errs *errors.ValidationErrors, m map[string]any, path, key string) {
	v, present := m[key]
	if !present || v == nil {
		return
	}
	a, ok := v.([]any)
	if !ok {
		errs.Add(join(path, key), "must be an array of strings")
		return
	}
	for i, item := range a {
		if !isString(item) {
			errs.Add(fmt.Sprintf("%s[%d]", join(path, key), i), "must be a string")
		}
	}
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// isNumber accepts the finite numeric types JSON and YAML decoders produce.
func isNumber(v any) bool {
	switch n := v.(type) {
	case float64:
		return !math.IsNaN(n) && !math.IsInf(n, 0)
	case int, int64, uint64:
		return true
	}
	return false
}
