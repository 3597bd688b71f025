// Package dataset は名前付き特徴量ベクトルからなるデータセットを提供します。
//
// Datasetは構築時に特徴量名からカラムインデックスへの写像を一度だけ作り、
// 以降は不変として扱われます。学習器はDatasetが返すgonumの行列ビューを
// そのまま入力として使用できます。
package dataset

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/clustergo/pkg/errors"
)

// Point は特徴量名から値への写像で表現された1サンプル
type Point map[string]float64

// Dataset は順序付きのサンプル集合と特徴量インデックス
type Dataset struct {
	featureNames []string
	featureIndex map[string]int
	data         *mat.Dense
}

// FromPoints は名前付き特徴量のサンプル集合からDatasetを構築する。
// 特徴量空間は全サンプルのキーの和集合で、名前順にソートされるため
// 同じ入力からは常に同じカラム順序が得られる。サンプルに存在しない
// 特徴量の値は0になる。
func FromPoints(points []Point) (*Dataset, error) {
	if len(points) == 0 {
		return nil, errors.NewValueError("dataset.FromPoints", "empty point collection")
	}

	nameSet := make(map[string]struct{})
	for _, p := range points {
		for name := range p {
			nameSet[name] = struct{}{}
		}
	}
	if len(nameSet) == 0 {
		return nil, errors.NewValueError("dataset.FromPoints", "points have no features")
	}

	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	data := mat.NewDense(len(points), len(names), nil)
	for i, p := range points {
		for name, v := range p {
			data.Set(i, index[name], v)
		}
	}

	return &Dataset{featureNames: names, featureIndex: index, data: data}, nil
}

// FromMatrix は既存の行列と特徴量名からDatasetを構築する。
// 特徴量名の数が行列のカラム数と一致しない場合はDimensionError。
func FromMatrix(X *mat.Dense, featureNames []string) (*Dataset, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.NewValueError("dataset.FromMatrix", "empty matrix")
	}
	if len(featureNames) != cols {
		return nil, errors.NewDimensionError("dataset.FromMatrix", cols, len(featureNames), 1)
	}

	names := make([]string, cols)
	copy(names, featureNames)

	index := make(map[string]int, cols)
	for i, name := range names {
		if _, ok := index[name]; ok {
			return nil, errors.NewValidationError("featureNames", "duplicate feature name", name)
		}
		index[name] = i
	}

	data := mat.NewDense(rows, cols, nil)
	data.Copy(X)

	return &Dataset{featureNames: names, featureIndex: index, data: data}, nil
}

// Len はサンプル数を返す
func (d *Dataset) Len() int {
	rows, _ := d.data.Dims()
	return rows
}

// NumFeatures は特徴量の数を返す
func (d *Dataset) NumFeatures() int {
	_, cols := d.data.Dims()
	return cols
}

// FeatureNames は特徴量名をカラム順で返す
func (d *Dataset) FeatureNames() []string {
	names := make([]string, len(d.featureNames))
	copy(names, d.featureNames)
	return names
}

// FeatureIndex は特徴量名からカラムインデックスへの写像のコピーを返す
func (d *Dataset) FeatureIndex() map[string]int {
	index := make(map[string]int, len(d.featureIndex))
	for name, i := range d.featureIndex {
		index[name] = i
	}
	return index
}

// Matrix はデータの行列ビューを返す。
// 返された行列は読み取り専用として扱うこと。
func (d *Dataset) Matrix() *mat.Dense {
	return d.data
}

// Row はi番目のサンプルのコピーを返す
func (d *Dataset) Row(i int) []float64 {
	_, cols := d.data.Dims()
	row := make([]float64, cols)
	mat.Row(row, i, d.data)
	return row
}

// Vector は名前付きのPointをこのDatasetのカラム順のベクトルに変換する。
// Datasetに存在しない特徴量名が含まれる場合はエラー。Pointに存在しない
// 特徴量の値は0になる。
func (d *Dataset) Vector(p Point) ([]float64, error) {
	vec := make([]float64, len(d.featureNames))
	for name, v := range p {
		i, ok := d.featureIndex[name]
		if !ok {
			return nil, errors.NewValidationError("point", "unknown feature name", name)
		}
		vec[i] = v
	}
	return vec, nil
}
