package cluster

import (
	"math"

	"github.com/YuminosukeSato/clustergo/pkg/errors"
)

// MetricKind は距離計算の種類を表す
type MetricKind string

const (
	// Euclidean はユークリッド距離（L2）
	Euclidean MetricKind = "euclidean"
	// SquaredEuclidean はユークリッド距離の二乗
	// 平方根を省略するため高速で、最近傍の順序は保存される
	SquaredEuclidean MetricKind = "sqeuclidean"
	// Manhattan はマンハッタン距離（L1）
	Manhattan MetricKind = "manhattan"
	// Cosine はコサイン距離（1 - コサイン類似度）
	// ベクトルの向きのみを比較し、大きさは無視する
	Cosine MetricKind = "cosine"
	// InnerProduct は内積ベースの非類似度（内積の符号反転）
	// 三角不等式を満たさないため厳密には距離ではないが、
	// 最近傍中心の探索には利用できる
	InnerProduct MetricKind = "inner_product"
)

// DistanceFunc は2つのベクトル間の距離を計算する純粋関数。
// 共有状態を持たないため、複数のワーカーから並行に呼び出せる。
// 両ベクトルの長さが等しいことは呼び出し側が保証する。
type DistanceFunc func(a, b []float64) float64

// MetricFor は指定された種類の距離関数を返す
func MetricFor(kind MetricKind) (DistanceFunc, error) {
	switch kind {
	case Euclidean:
		return euclideanDistance, nil
	case SquaredEuclidean:
		return squaredEuclideanDistance, nil
	case Manhattan:
		return manhattanDistance, nil
	case Cosine:
		return cosineDistance, nil
	case InnerProduct:
		return innerProductDistance, nil
	default:
		return nil, errors.NewValidationError("metric", "unknown metric kind", string(kind))
	}
}

// Distance は次元チェック付きで2つのベクトル間の距離を計算する。
// 長さが異なる場合はDimensionErrorを返す。
func Distance(kind MetricKind, a, b []float64) (float64, error) {
	fn, err := MetricFor(kind)
	if err != nil {
		return 0, err
	}
	if len(a) != len(b) {
		return 0, errors.NewDimensionError("Distance", len(a), len(b), 1)
	}
	return fn(a, b), nil
}

// euclideanDistance はユークリッド距離を計算する
func euclideanDistance(a, b []float64) float64 {
	return math.Sqrt(squaredEuclideanDistance(a, b))
}

// squaredEuclideanDistance はユークリッド距離の二乗を計算する
func squaredEuclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// manhattanDistance はマンハッタン距離を計算する
func manhattanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// cosineDistance はコサイン距離（1 - コサイン類似度）を計算する。
// どちらかがゼロベクトルの場合は直交とみなし1を返す。
func cosineDistance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// innerProductDistance は内積の符号を反転した非類似度を計算する
func innerProductDistance(a, b []float64) float64 {
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return -dot
}
