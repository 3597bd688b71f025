package cluster

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/clustergo/core/model"
	"github.com/YuminosukeSato/clustergo/pkg/errors"
)

// makeBlobs は各中心の周りに正規乱数でサンプルを生成する
func makeBlobs(perBlob int, centers [][]float64, spread float64, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))
	rows := perBlob * len(centers)
	cols := len(centers[0])

	X := mat.NewDense(rows, cols, nil)
	labels := make([]int, rows)

	for b, center := range centers {
		for i := 0; i < perBlob; i++ {
			row := b*perBlob + i
			for j := 0; j < cols; j++ {
				X.Set(row, j, center[j]+rng.NormFloat64()*spread)
			}
			labels[row] = b
		}
	}
	return X, labels
}

func TestKMeansTwoSeparatedClusters(t *testing.T) {
	trueCenters := [][]float64{{0, 0}, {10, 10}}
	X, _ := makeBlobs(50, trueCenters, 0.5, 42)

	for _, init := range []InitKind{RandomInit, KMeansPlusPlusInit} {
		t.Run(string(init), func(t *testing.T) {
			km := NewKMeans(
				WithNClusters(2),
				WithInit(init),
				WithRandomState(42),
				WithNumWorkers(4),
			)
			require.NoError(t, km.Fit(X, nil))
			assert.True(t, km.Converged())

			centers := km.ClusterCenters()
			require.Len(t, centers, 2)

			// 学習された中心は（順不同で）真の中心の近くにあるはず
			for _, want := range trueCenters {
				best := math.Inf(1)
				for _, got := range centers {
					if d := euclideanDistance(want, got); d < best {
						best = d
					}
				}
				assert.Less(t, best, 0.5, "no learned centroid near %v", want)
			}
		})
	}
}

func TestKMeansDeterminismSameConfig(t *testing.T) {
	X, _ := makeBlobs(40, [][]float64{{0, 0}, {5, 5}, {-5, 5}}, 0.8, 7)

	fit := func() *KMeans {
		km := NewKMeans(
			WithNClusters(3),
			WithRandomState(123),
			WithNumWorkers(4),
		)
		require.NoError(t, km.Fit(X, nil))
		return km
	}

	a, b := fit(), fit()

	// 同一データ・同一シード・同一ワーカー数ならビット単位で一致する
	assert.Equal(t, a.ClusterCenters(), b.ClusterCenters())
	assert.Equal(t, a.Labels(), b.Labels())
	assert.Equal(t, a.Inertia(), b.Inertia())
}

func TestKMeansDeterminismAcrossWorkerCounts(t *testing.T) {
	X, _ := makeBlobs(40, [][]float64{{0, 0}, {8, 8}}, 0.6, 19)

	fit := func(workers int) *KMeans {
		km := NewKMeans(
			WithNClusters(2),
			WithRandomState(99),
			WithNumWorkers(workers),
		)
		require.NoError(t, km.Fit(X, nil))
		return km
	}

	seq, par := fit(1), fit(4)

	// ワーカー数が異なると加算順序が変わるため、丸め誤差の範囲で比較する
	cSeq, cPar := seq.ClusterCenters(), par.ClusterCenters()
	require.Len(t, cPar, len(cSeq))
	for c := range cSeq {
		for j := range cSeq[c] {
			assert.InDelta(t, cSeq[c][j], cPar[c][j], 1e-9)
		}
	}
	assert.Equal(t, seq.Labels(), par.Labels())
}

func TestKMeansAssignmentFixedPoint(t *testing.T) {
	X, _ := makeBlobs(30, [][]float64{{0, 0}, {10, 10}}, 0.5, 5)

	km := NewKMeans(WithNClusters(2), WithRandomState(5))
	require.NoError(t, km.Fit(X, nil))
	require.True(t, km.Converged())

	// 収束後にもう一度割り当てを行っても結果は変わらない
	pred, err := km.Predict(X)
	require.NoError(t, err)

	labels := km.Labels()
	for i, label := range labels {
		assert.Equal(t, float64(label), pred.At(i, 0), "assignment changed after convergence at row %d", i)
	}
}

func TestKMeansKEqualsN(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		5, 5,
		-3, 2,
	})

	km := NewKMeans(WithNClusters(5), WithRandomState(1))
	require.NoError(t, km.Fit(X, nil))

	// 各点が自分自身の中心になるのでクラスタ内分散は0
	assert.InDelta(t, 0.0, km.Inertia(), 1e-12)

	labels := km.Labels()
	seen := make(map[int]bool)
	for _, l := range labels {
		seen[l] = true
	}
	assert.Len(t, seen, 5, "every point should own its centroid")
}

func TestKMeansAllPointsIdentical(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1})

	km := NewKMeans(WithNClusters(3), WithRandomState(2))
	require.NoError(t, km.Fit(X, nil))

	assert.True(t, km.Converged())
	assert.LessOrEqual(t, km.NIterations(), 2)

	// 全点が最小インデックスの中心に割り当てられ、残りは空になる
	assert.Equal(t, []int{0, 0, 0, 0, 0}, km.Labels())
	assert.Equal(t, 2, km.EmptyClusters())
	assert.InDelta(t, 0.0, km.Inertia(), 1e-12)
}

func TestKMeansEmptyCentroidReseed(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{2, 2, 2, 2, 2, 2, 2, 2})

	km := NewKMeans(
		WithNClusters(2),
		WithRandomState(3),
		WithEmptyCentroidPolicy(ReseedRandom),
	)
	require.NoError(t, km.Fit(X, nil))

	assert.True(t, km.Converged())
	assert.Equal(t, 1, km.EmptyClusters())

	// 再初期化された中心もデータ点からコピーされる
	for _, c := range km.ClusterCenters() {
		assert.Equal(t, []float64{2, 2}, c)
	}
}

func TestKMeansValidation(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})

	tests := []struct {
		name string
		km   *KMeans
	}{
		{name: "zero clusters", km: NewKMeans(WithNClusters(0))},
		{name: "zero max iter", km: NewKMeans(WithNClusters(2), WithMaxIter(0))},
		{name: "zero workers", km: NewKMeans(WithNClusters(2), WithNumWorkers(0))},
		{name: "unknown empty policy", km: NewKMeans(WithNClusters(2), WithEmptyCentroidPolicy("explode"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.km.Fit(X, nil)
			require.Error(t, err)

			var valErr *errors.ValidationError
			assert.True(t, errors.As(err, &valErr))
		})
	}

	t.Run("insufficient data", func(t *testing.T) {
		err := NewKMeans(WithNClusters(5)).Fit(X, nil)
		require.Error(t, err)

		var insErr *errors.InsufficientDataError
		assert.True(t, errors.As(err, &insErr))
	})
}

func TestKMeansPredictErrors(t *testing.T) {
	t.Run("not fitted", func(t *testing.T) {
		km := NewKMeans(WithNClusters(2))
		_, err := km.Predict(mat.NewDense(1, 2, []float64{0, 0}))
		require.Error(t, err)

		var nfErr *errors.NotFittedError
		assert.True(t, errors.As(err, &nfErr))
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		X, _ := makeBlobs(10, [][]float64{{0, 0}, {5, 5}}, 0.5, 1)
		km := NewKMeans(WithNClusters(2), WithRandomState(1))
		require.NoError(t, km.Fit(X, nil))

		_, err := km.Predict(mat.NewDense(1, 3, []float64{0, 0, 0}))
		require.Error(t, err)

		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})
}

func TestKMeansConvergenceWarning(t *testing.T) {
	var captured error
	errors.SetWarningHandler(func(w error) { captured = w })
	defer errors.SetWarningHandler(func(w error) {})

	X, _ := makeBlobs(30, [][]float64{{0, 0}, {10, 10}}, 0.5, 8)

	// 最初のイテレーションでは必ず割り当てが変化するので、
	// maxIter=1 では収束に到達できない
	km := NewKMeans(WithNClusters(2), WithRandomState(8), WithMaxIter(1))
	require.NoError(t, km.Fit(X, nil))

	assert.False(t, km.Converged())
	assert.Equal(t, model.PhaseMaxIterReached, km.Phase())
	assert.Equal(t, 1, km.NIterations())

	require.NotNil(t, captured, "expected a convergence warning")
	var convWarn *errors.ConvergenceWarning
	assert.True(t, errors.As(captured, &convWarn))
}

func TestKMeansTransform(t *testing.T) {
	X, _ := makeBlobs(20, [][]float64{{0, 0}, {10, 10}}, 0.5, 4)

	km := NewKMeans(WithNClusters(2), WithRandomState(4))
	require.NoError(t, km.Fit(X, nil))

	distances, err := km.Transform(X)
	require.NoError(t, err)

	rows, cols := distances.Dims()
	assert.Equal(t, 40, rows)
	assert.Equal(t, 2, cols)

	// 距離行列のargminはPredictと一致する
	pred, err := km.Predict(X)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		argmin := 0
		if distances.At(i, 1) < distances.At(i, 0) {
			argmin = 1
		}
		assert.Equal(t, pred.At(i, 0), float64(argmin))
	}
}

func TestKMeansFitPredict(t *testing.T) {
	X, _ := makeBlobs(15, [][]float64{{0, 0}, {7, 7}}, 0.4, 6)

	km := NewKMeans(WithNClusters(2), WithRandomState(6))
	pred, err := km.FitPredict(X, nil)
	require.NoError(t, err)

	labels := km.Labels()
	for i, label := range labels {
		assert.Equal(t, float64(label), pred.At(i, 0))
	}
}

func TestKMeansPredictRow(t *testing.T) {
	X, _ := makeBlobs(15, [][]float64{{0, 0}, {9, 9}}, 0.3, 10)

	km := NewKMeans(WithNClusters(2), WithRandomState(10))
	require.NoError(t, km.Fit(X, nil))

	nearZero, err := km.PredictRow([]float64{0.1, -0.1})
	require.NoError(t, err)
	nearNine, err := km.PredictRow([]float64{9.1, 8.9})
	require.NoError(t, err)
	assert.NotEqual(t, nearZero, nearNine)

	_, err = km.PredictRow([]float64{1, 2, 3})
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestKMeansAlternativeMetrics(t *testing.T) {
	X, _ := makeBlobs(25, [][]float64{{0, 0}, {10, 10}}, 0.5, 13)

	for _, metric := range []MetricKind{Manhattan, SquaredEuclidean, Cosine} {
		t.Run(string(metric), func(t *testing.T) {
			km := NewKMeans(WithNClusters(2), WithMetric(metric), WithRandomState(13))
			require.NoError(t, km.Fit(X, nil))
			assert.True(t, km.IsFitted())
			assert.LessOrEqual(t, km.NIterations(), 100)
		})
	}
}

func TestKMeansGetParams(t *testing.T) {
	km := NewKMeans(
		WithNClusters(4),
		WithMetric(Manhattan),
		WithInit(RandomInit),
		WithMaxIter(50),
		WithNumWorkers(2),
		WithRandomState(21),
	)

	params := km.GetParams()
	assert.Equal(t, 4, params["n_clusters"])
	assert.Equal(t, "manhattan", params["metric"])
	assert.Equal(t, "random", params["init"])
	assert.Equal(t, 50, params["max_iter"])
	assert.Equal(t, 2, params["num_workers"])
	assert.Equal(t, int64(21), params["random_state"])
}
