package cluster

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/clustergo/pkg/errors"
)

// InitKind はクラスタ中心の初期化戦略を表す
type InitKind string

const (
	// RandomInit は訓練データからk個の相異なる点を一様ランダムに選ぶ
	RandomInit InitKind = "random"
	// KMeansPlusPlusInit はk-means++初期化。
	// 既に選ばれた中心から遠い点ほど高い確率で次の中心に選ばれるため、
	// 初期中心が空間的に分散しやすい。Randomに比べて中心1つあたり
	// データ全体を1回走査するコストがかかる。
	KMeansPlusPlusInit InitKind = "k-means++"
)

// initialCentroids は指定された戦略でk個の初期クラスタ中心を生成する。
// rngは呼び出し側がシードを与えたものを渡すこと。同一シード・同一データ順で
// あれば結果は決定的になる。サンプル数がkより少ない場合はInsufficientDataError。
func initialCentroids(X mat.Matrix, k int, kind InitKind, dist DistanceFunc, rng *rand.Rand) ([][]float64, error) {
	rows, _ := X.Dims()
	if rows < k {
		return nil, errors.NewInsufficientDataError("cluster.initialCentroids", k, rows, "n_samples < n_clusters")
	}

	switch kind {
	case RandomInit:
		return initRandom(X, k, rng), nil
	case KMeansPlusPlusInit:
		return initKMeansPlusPlus(X, k, dist, rng), nil
	default:
		return nil, errors.NewValidationError("init", "unknown initialization kind", string(kind))
	}
}

// initRandom は相異なるk個のサンプルを一様ランダムに選んでコピーする
func initRandom(X mat.Matrix, k int, rng *rand.Rand) [][]float64 {
	rows, cols := X.Dims()

	// 順列の先頭k個を使うことで重複なしの抽出になる
	perm := rng.Perm(rows)

	centers := make([][]float64, k)
	for i := 0; i < k; i++ {
		centers[i] = make([]float64, cols)
		mat.Row(centers[i], perm[i], X)
	}
	return centers
}

// initKMeansPlusPlus はk-means++初期化を実行する。
// 最初の中心を一様ランダムに選び、以降は最近傍中心までの距離の二乗に
// 比例した確率で次の中心を選ぶ。全ての距離が0（全サンプルが同一点）の
// 場合は一様抽出に退化する。
func initKMeansPlusPlus(X mat.Matrix, k int, dist DistanceFunc, rng *rand.Rand) [][]float64 {
	rows, cols := X.Dims()
	centers := make([][]float64, k)

	// 最初のクラスタ中心をランダムに選択
	centers[0] = make([]float64, cols)
	mat.Row(centers[0], rng.Intn(rows), X)

	sample := make([]float64, cols)
	minDists := make([]float64, rows)
	for i := range minDists {
		minDists[i] = -1
	}

	// 残りのクラスタ中心を選択
	for c := 1; c < k; c++ {
		totalDistance := 0.0

		// 各サンプルから最近傍クラスタ中心までの距離の二乗を更新する。
		// 前回までの最小値を保持しているので、新しく追加された中心との
		// 距離だけ計算すればよい
		for i := 0; i < rows; i++ {
			mat.Row(sample, i, X)
			d := dist(sample, centers[c-1])
			d = d * d
			if minDists[i] < 0 || d < minDists[i] {
				minDists[i] = d
			}
			totalDistance += minDists[i]
		}

		selectedIdx := 0
		if totalDistance > 0 {
			// 距離の二乗に比例した確率でサンプルを選択
			target := rng.Float64() * totalDistance
			cumSum := 0.0
			for i := 0; i < rows; i++ {
				cumSum += minDists[i]
				if cumSum >= target {
					selectedIdx = i
					break
				}
			}
		} else {
			// 全サンプルが既存の中心と一致している場合は一様抽出
			selectedIdx = rng.Intn(rows)
		}

		centers[c] = make([]float64, cols)
		mat.Row(centers[c], selectedIdx, X)
	}

	return centers
}
