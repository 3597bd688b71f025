package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は全てのモデルの基底となる構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// TrainingPhase は反復学習エンジンのフェーズを表す。
// Initialized -> Iterating -> {Converged, MaxIterReached} と遷移し、
// 終端フェーズからの遷移は行われない。
type TrainingPhase int

const (
	// PhaseInitialized は初期化直後（イテレーション未実行）の状態
	PhaseInitialized TrainingPhase = iota
	// PhaseIterating は反復学習の実行中の状態
	PhaseIterating
	// PhaseConverged は割り当てが変化しなくなり収束した終端状態
	PhaseConverged
	// PhaseMaxIterReached はイテレーション上限に達した終端状態
	PhaseMaxIterReached
)

// Terminal はフェーズが終端状態かどうかを返す
func (p TrainingPhase) Terminal() bool {
	return p == PhaseConverged || p == PhaseMaxIterReached
}

func (p TrainingPhase) String() string {
	switch p {
	case PhaseInitialized:
		return "initialized"
	case PhaseIterating:
		return "iterating"
	case PhaseConverged:
		return "converged"
	case PhaseMaxIterReached:
		return "max_iter_reached"
	default:
		return "unknown"
	}
}
