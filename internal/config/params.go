package config

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseParams splits "key=value,key,key=value" into a map. A key without a
// value maps to "".
func ParseParams(s string) map[string]string {
	params := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 1 {
			params[kv[0]] = ""
		} else {
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	return params
}

// GetParamOr parses params[key] into the type of defaultValue, or returns
// defaultValue when the key is absent. For bools a key without a value is true.
func GetParamOr[T interface{ bool | int | float64 | string }](params map[string]string, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}

	var t T
	toT := func(v any) T { return v.(T) }
	switch any(defaultValue).(type) {
	case int:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return t, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
		}
		return toT(parsed), nil
	case float64:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return t, errors.Wrapf(err, "failed to parse configuration %s=%q to float", key, value)
		}
		return toT(parsed), nil
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1", "on":
			return toT(true), nil
		case "false", "0", "off":
			return toT(false), nil
		}
		return t, errors.Errorf("failed to parse configuration %s=%q to bool", key, value)
	case string:
		return toT(value), nil
	}
	return defaultValue, nil
}

// PopParamOr is like GetParamOr but also deletes the key from params.
func PopParamOr[T interface{ bool | int | float64 | string }](params map[string]string, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// ApplyParams overrides fields from a parameter map and validates the
// result. Unknown keys are an error. The map is consumed.
func (c *Config) ApplyParams(params map[string]string) error {
	next := c.Clone()

	if name, ok := params["preset"]; ok {
		p, err := Preset(name)
		if err != nil {
			return err
		}
		next = p
		delete(params, "preset")
	}

	var err error
	pop := func(f func() error) {
		if err == nil {
			err = f()
		}
	}
	pop(func() (e error) { next.MaxDepth, e = PopParamOr(params, "max_depth", next.MaxDepth); return })
	pop(func() (e error) { next.TimeLimit, e = PopParamOr(params, "time_limit", next.TimeLimit); return })
	pop(func() (e error) { next.DepthDiscount, e = PopParamOr(params, "depth_discount", next.DepthDiscount); return })
	pop(func() (e error) { next.BeamWidth, e = PopParamOr(params, "beam_width", next.BeamWidth); return })
	pop(func() (e error) { next.NodeBeamWidth, e = PopParamOr(params, "node_beam_width", next.NodeBeamWidth); return })
	pop(func() (e error) { next.HistoryCapacity, e = PopParamOr(params, "history_capacity", next.HistoryCapacity); return })
	pop(func() (e error) { next.WinScore, e = PopParamOr(params, "win_score", next.WinScore); return })
	pop(func() (e error) { next.AlphaBeta, e = PopParamOr(params, "alpha_beta", next.AlphaBeta); return })
	pop(func() (e error) { next.AdaptToSize, e = PopParamOr(params, "adapt_to_size", next.AdaptToSize); return })
	pop(func() (e error) { next.EvalCacheMB, e = PopParamOr(params, "eval_cache_mb", next.EvalCacheMB); return })
	pop(func() (e error) { next.Rules, e = PopParamOr(params, "rules", next.Rules); return })
	pop(func() error {
		v, e := PopParamOr(params, "line_policy", string(next.LinePolicy))
		next.LinePolicy = LinePolicy(v)
		return e
	})
	pop(func() error {
		v, e := PopParamOr(params, "beam_ranking", string(next.BeamRanking))
		next.BeamRanking = BeamRanking(v)
		return e
	})
	pop(func() error {
		v, ok := params["line_scores"]
		if !ok {
			return nil
		}
		delete(params, "line_scores")
		scores, e := parseScores(v)
		if e != nil {
			return e
		}
		next.LineScores = scores
		return nil
	})
	if err != nil {
		return err
	}

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return errors.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Set overrides a single key, as sent by "setoption".
func (c *Config) Set(key, value string) error {
	return c.ApplyParams(map[string]string{key: value})
}

// parseScores reads a line score table written as "0:0:10:100:1000".
func parseScores(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	scores := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse line_scores entry %q", p)
		}
		scores = append(scores, v)
	}
	return scores, nil
}
