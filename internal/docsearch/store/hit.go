package store

import (
	"fmt"
	"strconv"
	"strings"
)

// HitKind 原始命中的形状。
type HitKind uint8

const (
	// HitUnknown 无法识别的命中，归一化时跳过。
	HitUnknown HitKind = iota
	// HitPair [score, id] 形式。
	HitPair
	// HitObject {score|distance, id} 形式。
	HitObject
)

// String implements fmt.Stringer.
func (k HitKind) String() string {
	switch k {
	case HitPair:
		return "pair"
	case HitObject:
		return "object"
	default:
		return "unknown"
	}
}

// PairHit [score, id] 形式的命中。
type PairHit struct {
	Score float64
	ID    string
}

// ObjectHit 带字段的命中，Score 与 Distance 至多出现其一也可能都缺失。
type ObjectHit struct {
	ID       string
	Score    *float64
	Distance *float64
}

// RawHit 向量索引返回的原始命中，是 PairHit 与 ObjectHit 的联合类型。
// 只有与 Kind 对应的字段有效。
type RawHit struct {
	Kind   HitKind
	Pair   PairHit
	Object ObjectHit
}

// Hit 归一化后的命中。
type Hit struct {
	ID    string
	Score float64
}

// DistanceFunc 将距离值映射为相似度。
type DistanceFunc func(distance float64) float64

// DistanceAsScore 原样使用距离值作为分数。
func DistanceAsScore(d float64) float64 { return d }

// CosineDistanceToSimilarity 余弦距离转相似度。
func CosineDistanceToSimilarity(d float64) float64 { return 1 - d }

// distance 映射名称。
const (
	DistanceMappingRaw    = "raw"
	DistanceMappingCosine = "cosine"
)

// ParseDistanceMapping 按名称返回 distance 映射，空名称等同 raw。
func ParseDistanceMapping(name string) (DistanceFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DistanceMappingRaw:
		return DistanceAsScore, nil
	case DistanceMappingCosine:
		return CosineDistanceToSimilarity, nil
	default:
		return nil, fmt.Errorf("unknown distance mapping %q", name)
	}
}

// NewPairHit 构造 pair 形式的命中。
func NewPairHit(score float64, id string) RawHit {
	return RawHit{Kind: HitPair, Pair: PairHit{Score: score, ID: id}}
}

// NewScoreHit 构造带 score 字段的 object 命中。
func NewScoreHit(id string, score float64) RawHit {
	return RawHit{Kind: HitObject, Object: ObjectHit{ID: id, Score: &score}}
}

// NewDistanceHit 构造带 distance 字段的 object 命中。
func NewDistanceHit(id string, distance float64) RawHit {
	return RawHit{Kind: HitObject, Object: ObjectHit{ID: id, Distance: &distance}}
}

// Normalize 将原始命中转换为 (score, id)。
// object 形式优先使用 score，其次 distance（经 distance 映射），都缺失时分数为 0。
func (h RawHit) Normalize(distance DistanceFunc) (Hit, bool) {
	switch h.Kind {
	case HitPair:
		return Hit{ID: h.Pair.ID, Score: h.Pair.Score}, true
	case HitObject:
		hit := Hit{ID: h.Object.ID}
		switch {
		case h.Object.Score != nil:
			hit.Score = *h.Object.Score
		case h.Object.Distance != nil:
			if distance == nil {
				distance = DistanceAsScore
			}
			hit.Score = distance(*h.Object.Distance)
		}
		return hit, true
	default:
		return Hit{}, false
	}
}

// NormalizeHits 归一化一组命中，保持原有顺序，跳过无法识别的条目。
func NormalizeHits(raw []RawHit, distance DistanceFunc) []Hit {
	hits := make([]Hit, 0, len(raw))
	for _, r := range raw {
		if h, ok := r.Normalize(distance); ok {
			hits = append(hits, h)
		}
	}
	return hits
}

// ParseRawHit 识别 JSON 或 msgpack 解码出的单个命中。
func ParseRawHit(v any) RawHit {
	switch t := v.(type) {
	case []any:
		if len(t) < 2 {
			return RawHit{}
		}
		score, ok := toFloat(t[0])
		if !ok {
			return RawHit{}
		}
		return NewPairHit(score, toString(t[1]))
	case map[string]any:
		return parseObjectHit(func(key string) (any, bool) {
			val, ok := t[key]
			return val, ok
		})
	case map[any]any:
		return parseObjectHit(func(key string) (any, bool) {
			val, ok := t[key]
			return val, ok
		})
	default:
		return RawHit{}
	}
}

// ParseRawHits 识别一组命中。
func ParseRawHits(values []any) []RawHit {
	hits := make([]RawHit, 0, len(values))
	for _, v := range values {
		hits = append(hits, ParseRawHit(v))
	}
	return hits
}

func parseObjectHit(get func(string) (any, bool)) RawHit {
	var obj ObjectHit
	if id, ok := get("id"); ok && id != nil {
		obj.ID = toString(id)
	}
	if raw, ok := get("score"); ok {
		if f, ok := toFloat(raw); ok {
			obj.Score = &f
		}
	}
	if obj.Score == nil {
		if raw, ok := get("distance"); ok {
			if f, ok := toFloat(raw); ok {
				obj.Distance = &f
			}
		}
	}
	return RawHit{Kind: HitObject, Object: obj}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
