// Package cluster はクラスタリングアルゴリズムを提供します。
//
// 中心となるのは並列Lloyd法によるK-meansトレーナー（KMeans）です。
// 距離計算（MetricKind）とクラスタ中心の初期化戦略（InitKind）は
// 設定時に選択する閉じた集合として提供され、全ての乱数は呼び出し側が
// 与えるシードから生成されるため、同一データ・同一シード・同一ワーカー数で
// 学習を再実行すると同一のモデルが得られます。
package cluster
