// Package metrics はクラスタリング結果の評価指標を提供します。
//
// 2つのラベル系列（予測クラスタと正解クラスタ）の一致度を、経験的な
// 同時分布から計算した相互情報量に基づいて評価します。ラベルの値そのもの
// には意味がなく、全ての指標はラベルの付け替え（全単射）に対して不変です。
package metrics

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/clustergo/pkg/errors"
)

// ClusteringScore はクラスタリング評価の結果レコード
type ClusteringScore struct {
	// NMI は正規化相互情報量。[0, 1]の値をとり、1が完全一致
	NMI float64
	// AMI は調整相互情報量。偶然の一致を補正した値で、1以下（負もあり得る）
	AMI float64
}

// Summary は評価結果の要約文字列を返す
func (s ClusteringScore) Summary() string {
	return fmt.Sprintf("NMI=%.4f AMI=%.4f", s.NMI, s.AMI)
}

// EvaluateClustering は予測ラベルと正解ラベルからNMIとAMIを計算する
func EvaluateClustering(predicted, truth []int) (ClusteringScore, error) {
	table, err := newContingencyTable("EvaluateClustering", predicted, truth)
	if err != nil {
		return ClusteringScore{}, err
	}
	return ClusteringScore{
		NMI: table.nmi(),
		AMI: table.ami(),
	}, nil
}

// NMI は正規化相互情報量を計算する
//
// NMI = I(predicted; truth) / mean(H(predicted), H(truth))
//
// 両方のラベル系列が単一クラスタ（エントロピーの和が0）の場合、
// 同じ点集合に対する単一クラスタの分割は常に同一の分割なので1を返す。
// 片方のみが単一クラスタの場合は相互情報量が0になるため0を返す。
func NMI(predicted, truth []int) (float64, error) {
	table, err := newContingencyTable("NMI", predicted, truth)
	if err != nil {
		return 0, err
	}
	return table.nmi(), nil
}

// AMI は調整相互情報量を計算する
//
// AMI = (I - E[I]) / (mean(H(predicted), H(truth)) - E[I])
//
// E[I]は周辺分布を固定したときの超幾何モデルの下での相互情報量の期待値。
// 偶然の一致が補正されるため、ランダムな分割に対しては0付近の値になる。
func AMI(predicted, truth []int) (float64, error) {
	table, err := newContingencyTable("AMI", predicted, truth)
	if err != nil {
		return 0, err
	}
	return table.ami(), nil
}

// contingencyTable は2つのラベル系列から構築した分割表。
// ラベル値は出現順にコンパクトなインデックスへ写像される
type contingencyTable struct {
	counts [][]int // rows: predicted labels, cols: truth labels
	rowSum []int
	colSum []int
	n      int
}

// newContingencyTable はラベル系列を検証して分割表を構築する
func newContingencyTable(op string, predicted, truth []int) (*contingencyTable, error) {
	if len(predicted) != len(truth) {
		return nil, errors.NewSizeMismatchError(op, "predicted", len(predicted), "truth", len(truth))
	}
	if len(predicted) == 0 {
		return nil, errors.NewValueError(op, "empty label sequences")
	}

	predIndex := make(map[int]int)
	truthIndex := make(map[int]int)
	for _, label := range predicted {
		if _, ok := predIndex[label]; !ok {
			predIndex[label] = len(predIndex)
		}
	}
	for _, label := range truth {
		if _, ok := truthIndex[label]; !ok {
			truthIndex[label] = len(truthIndex)
		}
	}

	counts := make([][]int, len(predIndex))
	for i := range counts {
		counts[i] = make([]int, len(truthIndex))
	}
	for i := range predicted {
		counts[predIndex[predicted[i]]][truthIndex[truth[i]]]++
	}

	table := &contingencyTable{
		counts: counts,
		rowSum: make([]int, len(predIndex)),
		colSum: make([]int, len(truthIndex)),
		n:      len(predicted),
	}
	for i, row := range counts {
		for j, c := range row {
			table.rowSum[i] += c
			table.colSum[j] += c
		}
	}
	return table, nil
}

// entropy は度数ベクトルからエントロピー（自然対数）を計算する
func entropy(counts []int, n int) float64 {
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		h -= p * math.Log(p)
	}
	return h
}

// mutualInformation は分割表から相互情報量（自然対数）を計算する
func (t *contingencyTable) mutualInformation() float64 {
	mi := 0.0
	n := float64(t.n)
	for i, row := range t.counts {
		for j, c := range row {
			if c == 0 {
				continue
			}
			pij := float64(c) / n
			mi += pij * math.Log(n*float64(c)/(float64(t.rowSum[i])*float64(t.colSum[j])))
		}
	}
	// 丸め誤差で僅かに負になることがある
	if mi < 0 {
		mi = 0
	}
	return mi
}

// nmi は正規化相互情報量を計算する
func (t *contingencyTable) nmi() float64 {
	hPred := entropy(t.rowSum, t.n)
	hTruth := entropy(t.colSum, t.n)
	mean := (hPred + hTruth) / 2

	if mean == 0 {
		// 両方が単一クラスタ: 同じ点集合の自明な分割同士は常に同一
		errors.Warn(errors.NewUndefinedMetricWarning("NMI", "zero entropy in both label sequences", 1.0))
		return 1.0
	}

	nmi := t.mutualInformation() / mean
	if nmi > 1 {
		nmi = 1
	}
	if nmi < 0 {
		nmi = 0
	}
	return nmi
}

// ami は調整相互情報量を計算する
func (t *contingencyTable) ami() float64 {
	hPred := entropy(t.rowSum, t.n)
	hTruth := entropy(t.colSum, t.n)
	mean := (hPred + hTruth) / 2

	if mean == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AMI", "zero entropy in both label sequences", 1.0))
		return 1.0
	}

	mi := t.mutualInformation()
	emi := t.expectedMutualInformation()

	denom := mean - emi
	if denom == 0 {
		// 正規化できない退化ケース: 相互情報量が期待値と一致していれば
		// 偶然との区別がつかないので0、それ以外は符号で判定する
		errors.Warn(errors.NewUndefinedMetricWarning("AMI", "normalizer equals expected mutual information", 0.0))
		return 0.0
	}

	ami := (mi - emi) / denom
	if ami > 1 {
		ami = 1
	}
	return ami
}

// expectedMutualInformation は周辺度数を固定した超幾何モデルの下での
// 相互情報量の期待値を計算する。階乗はオーバーフローを避けるため
// 対数ガンマ関数（math.Lgamma）で扱う
func (t *contingencyTable) expectedMutualInformation() float64 {
	n := t.n
	logN := math.Log(float64(n))
	lgN1, _ := math.Lgamma(float64(n + 1))

	emi := 0.0
	for _, a := range t.rowSum {
		lgA1, _ := math.Lgamma(float64(a + 1))
		lgNA1, _ := math.Lgamma(float64(n - a + 1))
		for _, b := range t.colSum {
			lgB1, _ := math.Lgamma(float64(b + 1))
			lgNB1, _ := math.Lgamma(float64(n - b + 1))

			low := a + b - n
			if low < 1 {
				low = 1
			}
			high := a
			if b < a {
				high = b
			}

			for nij := low; nij <= high; nij++ {
				// (nij/n) * log(n*nij / (a*b))
				term := float64(nij) / float64(n) *
					(logN + math.Log(float64(nij)) - math.Log(float64(a)) - math.Log(float64(b)))

				// 超幾何分布の確率（対数階乗で計算）
				lgNij1, _ := math.Lgamma(float64(nij + 1))
				lgANij1, _ := math.Lgamma(float64(a - nij + 1))
				lgBNij1, _ := math.Lgamma(float64(b - nij + 1))
				lgRest1, _ := math.Lgamma(float64(n - a - b + nij + 1))

				logProb := lgA1 + lgB1 + lgNA1 + lgNB1 -
					lgN1 - lgNij1 - lgANij1 - lgBNij1 - lgRest1

				emi += term * math.Exp(logProb)
			}
		}
	}
	return emi
}
