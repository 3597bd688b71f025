package cluster

// EmptyCentroidPolicy は1つも点が割り当てられなかった中心の扱いを表す
type EmptyCentroidPolicy string

const (
	// KeepPrevious は空の中心を前回の値のまま保持する（デフォルト）
	KeepPrevious EmptyCentroidPolicy = "keep_previous"
	// ReseedRandom は空の中心をランダムに選んだサンプルで再初期化する
	ReseedRandom EmptyCentroidPolicy = "reseed_random"
)

// KMeansOption はKMeansの設定オプション
type KMeansOption func(*KMeans)

// WithNClusters はクラスタ数kを設定
func WithNClusters(n int) KMeansOption {
	return func(km *KMeans) {
		km.nClusters = n
	}
}

// WithInit は初期化戦略を設定
func WithInit(kind InitKind) KMeansOption {
	return func(km *KMeans) {
		km.init = kind
	}
}

// WithMetric は距離計算の種類を設定
func WithMetric(kind MetricKind) KMeansOption {
	return func(km *KMeans) {
		km.metric = kind
	}
}

// WithMaxIter は最大イテレーション数を設定
func WithMaxIter(maxIter int) KMeansOption {
	return func(km *KMeans) {
		km.maxIter = maxIter
	}
}

// WithNumWorkers は並列ワーカー数を設定（1で逐次実行）
func WithNumWorkers(n int) KMeansOption {
	return func(km *KMeans) {
		km.numWorkers = n
	}
}

// WithRandomState は乱数シードを設定。
// 負の値を指定すると現在時刻でシードされ、再現性は保証されない。
func WithRandomState(seed int64) KMeansOption {
	return func(km *KMeans) {
		km.randomState = seed
	}
}

// WithEmptyCentroidPolicy は空の中心の扱いを設定
func WithEmptyCentroidPolicy(policy EmptyCentroidPolicy) KMeansOption {
	return func(km *KMeans) {
		km.emptyPolicy = policy
	}
}
