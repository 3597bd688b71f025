package cluster

import (
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/clustergo/core/model"
	"github.com/YuminosukeSato/clustergo/core/parallel"
	"github.com/YuminosukeSato/clustergo/pkg/errors"
	"github.com/YuminosukeSato/clustergo/pkg/log"
)

// KMeans は並列Lloyd法によるK-meansクラスタリング。
//
// 1イテレーションは割り当てステップと更新ステップからなり、どちらも
// 固定数のワーカーに分割して実行される。各ステップはバリア同期で完了を
// 待ち合わせるため、次のステップは前のステップの結果が全て確定してから
// 開始される。割り当てバッファは点のインデックス範囲で分割され、ワーカー
// ごとの部分和はワーカー番号の昇順でマージされるので、同一データ・
// 同一シード・同一ワーカー数での学習結果はビット単位で一致する。
// ワーカー数が異なる場合は浮動小数点の加算順序が変わるため、結果は
// 丸め誤差の範囲でのみ一致する。
type KMeans struct {
	model.BaseEstimator

	// ハイパーパラメータ
	nClusters   int                 // クラスタ数
	init        InitKind            // 初期化戦略
	metric      MetricKind          // 距離計算の種類
	maxIter     int                 // 最大イテレーション数
	numWorkers  int                 // 並列ワーカー数
	randomState int64               // 乱数シード（負で時刻シード）
	emptyPolicy EmptyCentroidPolicy // 空の中心の扱い

	// 学習パラメータ
	clusterCenters_ [][]float64 // クラスタ中心（nClusters x nFeatures）
	labels_         []int       // 各サンプルのクラスタラベル
	inertia_        float64     // クラスタ内平方和誤差
	nIter_          int         // 実行されたイテレーション数
	emptyClusters_  int         // 最終モデルで空だった中心の数
	phase           model.TrainingPhase

	// 内部状態
	mu         sync.RWMutex
	rng        *rand.Rand
	nFeatures_ int
	nSamples_  int
}

// NewKMeans は新しいKMeansを作成
func NewKMeans(options ...KMeansOption) *KMeans {
	km := &KMeans{
		nClusters:   8,
		init:        KMeansPlusPlusInit,
		metric:      Euclidean,
		maxIter:     100,
		numWorkers:  runtime.GOMAXPROCS(0),
		randomState: -1,
		emptyPolicy: KeepPrevious,
		phase:       model.PhaseInitialized,
	}

	for _, opt := range options {
		opt(km)
	}

	if km.randomState >= 0 {
		km.rng = rand.New(rand.NewSource(km.randomState))
	} else {
		km.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return km
}

// validateParams はハイパーパラメータを検証する
func (km *KMeans) validateParams() error {
	if km.nClusters < 1 {
		return errors.NewValidationError("n_clusters", "must be a positive integer", km.nClusters)
	}
	if km.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be a positive integer", km.maxIter)
	}
	if km.numWorkers < 1 {
		return errors.NewValidationError("num_workers", "must be a positive integer", km.numWorkers)
	}
	if km.emptyPolicy != KeepPrevious && km.emptyPolicy != ReseedRandom {
		return errors.NewValidationError("empty_centroid_policy", "unknown policy", string(km.emptyPolicy))
	}
	return nil
}

// Fit はLloyd法でクラスタ中心を学習する。
// yはインターフェース互換のための引数で、使用されない。
func (km *KMeans) Fit(X, y mat.Matrix) error {
	_ = y // クラスタリングは教師ラベルを使わない

	km.mu.Lock()
	defer km.mu.Unlock()

	startTime := time.Now()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("KMeans.Fit", "empty data", errors.ErrEmptyData)
	}
	if err := km.validateParams(); err != nil {
		return err
	}
	if rows < km.nClusters {
		return errors.NewInsufficientDataError("KMeans.Fit", km.nClusters, rows, "n_samples < n_clusters")
	}

	dist, err := MetricFor(km.metric)
	if err != nil {
		return err
	}

	// ホットループで行の再取得を避けるため、全行を連続バッファに展開する
	backing := make([]float64, rows*cols)
	points := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		points[i] = backing[i*cols : (i+1)*cols]
		mat.Row(points[i], i, X)
	}

	centroids, err := initialCentroids(X, km.nClusters, km.init, dist, km.rng)
	if err != nil {
		return err
	}

	km.Reset()
	km.phase = model.PhaseInitialized

	assignments := make([]int, rows)
	for i := range assignments {
		assignments[i] = -1
	}

	// ワーカーごとの部分集計バッファ。チャンク分割はイテレーション間で
	// 不変なので、バッファは一度だけ確保して使い回す
	nChunks := parallel.NumChunks(km.numWorkers, rows)
	changedBy := make([]int, nChunks)
	partSums := make([][]float64, nChunks)
	partCounts := make([][]int, nChunks)
	for w := 0; w < nChunks; w++ {
		partSums[w] = make([]float64, km.nClusters*cols)
		partCounts[w] = make([]int, km.nClusters)
	}
	totalSum := make([]float64, km.nClusters*cols)
	totalCount := make([]int, km.nClusters)

	nIter := 0
	emptyClusters := 0

	for iter := 0; iter < km.maxIter; iter++ {
		km.phase = model.PhaseIterating
		nIter = iter + 1

		// 割り当てステップ: 各点を最近傍の中心に割り当てる。
		// 各ワーカーは担当範囲のスロットにのみ書き込むため同期は不要
		for w := range changedBy {
			changedBy[w] = 0
		}
		parallel.Workers(km.numWorkers, rows, func(w, start, end int) {
			for i := start; i < end; i++ {
				best := nearestCentroid(points[i], centroids, dist)
				if assignments[i] != best {
					assignments[i] = best
					changedBy[w]++
				}
			}
		})
		changed := 0
		for _, c := range changedBy {
			changed += c
		}

		// 更新ステップ: ワーカーごとに担当範囲の部分和を点インデックスの
		// 昇順で集計し、バリアの後にワーカー番号の昇順でマージする
		parallel.Workers(km.numWorkers, rows, func(w, start, end int) {
			sum := partSums[w]
			count := partCounts[w]
			for i := range sum {
				sum[i] = 0
			}
			for i := range count {
				count[i] = 0
			}
			for i := start; i < end; i++ {
				c := assignments[i]
				base := c * cols
				for j, v := range points[i] {
					sum[base+j] += v
				}
				count[c]++
			}
		})
		for i := range totalSum {
			totalSum[i] = 0
		}
		for i := range totalCount {
			totalCount[i] = 0
		}
		for w := 0; w < nChunks; w++ {
			for i, v := range partSums[w] {
				totalSum[i] += v
			}
			for c, n := range partCounts[w] {
				totalCount[c] += n
			}
		}

		// 新しい中心を前回とは別のバッファに確定する。中心ごとに独立な
		// 計算なので中心のインデックス範囲で並列化できる
		next := make([][]float64, km.nClusters)
		parallel.Workers(km.numWorkers, km.nClusters, func(_, startC, endC int) {
			for c := startC; c < endC; c++ {
				vec := make([]float64, cols)
				if totalCount[c] > 0 {
					inv := 1.0 / float64(totalCount[c])
					base := c * cols
					for j := 0; j < cols; j++ {
						vec[j] = totalSum[base+j] * inv
					}
				} else {
					// 空の中心は前回の値を保持する
					copy(vec, centroids[c])
				}
				next[c] = vec
			}
		})

		emptyClusters = 0
		for c := 0; c < km.nClusters; c++ {
			if totalCount[c] == 0 {
				emptyClusters++
				if km.emptyPolicy == ReseedRandom {
					copy(next[c], points[km.rng.Intn(rows)])
				}
			}
		}
		centroids = next

		for c := range centroids {
			if err := errors.CheckNumericalStability("centroid_update", centroids[c], iter); err != nil {
				return err
			}
		}

		// 収束判定: 前回のイテレーションから割り当てが1つも変化しなければ終了
		if changed == 0 {
			km.phase = model.PhaseConverged
			break
		}
	}

	if !km.phase.Terminal() {
		km.phase = model.PhaseMaxIterReached
		errors.Warn(errors.NewConvergenceWarning("KMeans", km.maxIter, ""))
	}

	// 慣性（クラスタ内平方和誤差）はワーカー数に依存しないよう逐次で計算する
	inertia := 0.0
	for i := 0; i < rows; i++ {
		d := dist(points[i], centroids[assignments[i]])
		inertia += d * d
	}

	km.clusterCenters_ = centroids
	km.labels_ = assignments
	km.inertia_ = inertia
	km.nIter_ = nIter
	km.emptyClusters_ = emptyClusters
	km.nFeatures_ = cols
	km.nSamples_ = rows
	km.SetFitted()

	slog.Debug("k-means training finished",
		slog.String(log.ModelNameKey, "KMeans"),
		slog.String(log.OperationKey, "fit"),
		slog.String(log.ComponentKey, "cluster"),
		slog.Int(log.SamplesKey, rows),
		slog.Int(log.FeaturesKey, cols),
		slog.Int(log.ClustersKey, km.nClusters),
		slog.Int(log.WorkersKey, km.numWorkers),
		slog.Int(log.IterationKey, nIter),
		slog.Bool(log.ConvergedKey, km.phase == model.PhaseConverged),
		slog.Float64(log.InertiaKey, inertia),
		slog.Int(log.EmptyClustersKey, emptyClusters),
		slog.Int64(log.DurationMsKey, time.Since(startTime).Milliseconds()),
	)

	return nil
}

// Predict は各入力サンプルに最近傍のクラスタ中心のインデックスを割り当てる
func (km *KMeans) Predict(X mat.Matrix) (mat.Matrix, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Predict")
	}

	rows, cols := X.Dims()
	if cols != km.nFeatures_ {
		return nil, errors.NewDimensionError("KMeans.Predict", km.nFeatures_, cols, 1)
	}

	dist, err := MetricFor(km.metric)
	if err != nil {
		return nil, err
	}

	predictions := mat.NewDense(rows, 1, nil)
	sample := make([]float64, cols)

	for i := 0; i < rows; i++ {
		mat.Row(sample, i, X)
		predictions.Set(i, 0, float64(nearestCentroid(sample, km.clusterCenters_, dist)))
	}

	return predictions, nil
}

// PredictRow は1つのサンプルに対する最近傍クラスタのインデックスを返す
func (km *KMeans) PredictRow(sample []float64) (int, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if !km.IsFitted() {
		return 0, errors.NewNotFittedError("KMeans", "PredictRow")
	}
	if len(sample) != km.nFeatures_ {
		return 0, errors.NewDimensionError("KMeans.PredictRow", km.nFeatures_, len(sample), 1)
	}

	dist, err := MetricFor(km.metric)
	if err != nil {
		return 0, err
	}

	return nearestCentroid(sample, km.clusterCenters_, dist), nil
}

// Transform は各サンプルを全クラスタ中心との距離ベクトルに変換する
func (km *KMeans) Transform(X mat.Matrix) (mat.Matrix, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Transform")
	}

	rows, cols := X.Dims()
	if cols != km.nFeatures_ {
		return nil, errors.NewDimensionError("KMeans.Transform", km.nFeatures_, cols, 1)
	}

	dist, err := MetricFor(km.metric)
	if err != nil {
		return nil, err
	}

	distances := mat.NewDense(rows, km.nClusters, nil)
	sample := make([]float64, cols)

	for i := 0; i < rows; i++ {
		mat.Row(sample, i, X)
		for c := 0; c < km.nClusters; c++ {
			distances.Set(i, c, dist(sample, km.clusterCenters_[c]))
		}
	}

	return distances, nil
}

// FitPredict は学習と学習データに対する予測を同時に行う
func (km *KMeans) FitPredict(X, y mat.Matrix) (mat.Matrix, error) {
	if err := km.Fit(X, y); err != nil {
		return nil, err
	}

	km.mu.RLock()
	defer km.mu.RUnlock()

	predictions := mat.NewDense(len(km.labels_), 1, nil)
	for i, label := range km.labels_ {
		predictions.Set(i, 0, float64(label))
	}
	return predictions, nil
}

// ClusterCenters は学習されたクラスタ中心のコピーを返す
func (km *KMeans) ClusterCenters() [][]float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()

	centers := make([][]float64, len(km.clusterCenters_))
	for i := range km.clusterCenters_ {
		centers[i] = make([]float64, len(km.clusterCenters_[i]))
		copy(centers[i], km.clusterCenters_[i])
	}
	return centers
}

// Labels は学習データのクラスタラベルのコピーを返す
func (km *KMeans) Labels() []int {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if km.labels_ == nil {
		return nil
	}

	labels := make([]int, len(km.labels_))
	copy(labels, km.labels_)
	return labels
}

// Inertia は慣性（クラスタ内平方和誤差）を返す
func (km *KMeans) Inertia() float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.inertia_
}

// NIterations は実行された学習イテレーション数を返す
func (km *KMeans) NIterations() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.nIter_
}

// Converged は割り当てが変化しなくなって終了したかどうかを返す
func (km *KMeans) Converged() bool {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.phase == model.PhaseConverged
}

// Phase は学習エンジンの現在のフェーズを返す
func (km *KMeans) Phase() model.TrainingPhase {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.phase
}

// EmptyClusters は最終モデルで1つも点が割り当てられなかった中心の数を返す
func (km *KMeans) EmptyClusters() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.emptyClusters_
}

// GetParams はモデルのハイパーパラメータを返す
func (km *KMeans) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_clusters":            km.nClusters,
		"init":                  string(km.init),
		"metric":                string(km.metric),
		"max_iter":              km.maxIter,
		"num_workers":           km.numWorkers,
		"random_state":          km.randomState,
		"empty_centroid_policy": string(km.emptyPolicy),
	}
}

// nearestCentroid は最近傍クラスタ中心のインデックスを返す。
// 距離が等しい場合はインデックスの小さい中心を選ぶ
func nearestCentroid(sample []float64, centroids [][]float64, dist DistanceFunc) int {
	minDist := math.Inf(1)
	nearest := 0

	for c, center := range centroids {
		d := dist(sample, center)
		if d < minDist {
			minDist = d
			nearest = c
		}
	}

	return nearest
}
