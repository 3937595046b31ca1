package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// params wraps the decoded JSON parameter map. JSON numbers arrive as
// float64; LLM-produced arguments sometimes carry integers as strings,
// so both are accepted.
type params map[string]any

func (p params) requireInt(key string) (int64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	return coerceInt(key, v)
}

func (p params) optionalInt(key string, def int64) (int64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	return coerceInt(key, v)
}

func (p params) requireString(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func (p params) optionalString(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func (p params) requireObject(key string) (map[string]any, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("%s is required", key)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", key)
	}
	return m, nil
}

func coerceInt(key string, v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}
