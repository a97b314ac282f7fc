package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadParams reads a request body from path (or stdin for "-"). YAML is
// accepted, and since JSON is valid YAML both formats decode the same way.
// Unquoted dates stay strings, as TestRail expects them verbatim.
func loadParams(path string, stdin io.Reader) (any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("params file path is empty")
	}

	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	params, err := plainValue(&doc)
	if err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	if params == nil {
		return nil, errors.New("params file is empty")
	}
	return params, nil
}

// plainValue converts a YAML node into JSON-encodable values, keeping
// timestamp scalars as their source text instead of time.Time.
func plainValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return plainValue(n.Content[0])
	case yaml.AliasNode:
		return plainValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			v, err := plainValue(val)
			if err != nil {
				return nil, err
			}
			if key.ShortTag() == "!!merge" {
				if err := mergeInto(out, v); err != nil {
					return nil, fmt.Errorf("line %d: %w", key.Line, err)
				}
				continue
			}
			out[key.Value] = v
		}
		return out, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// mergeInto applies a "<<" merge key without overriding keys already set.
func mergeInto(dst map[string]any, src any) error {
	switch m := src.(type) {
	case map[string]any:
		for k, v := range m {
			if _, ok := dst[k]; !ok {
				dst[k] = v
			}
		}
	case []any:
		for _, item := range m {
			if err := mergeInto(dst, item); err != nil {
				return err
			}
		}
	default:
		return errors.New("merge value must be a mapping")
	}
	return nil
}
