// Package clustergo provides clustering algorithms and partition metrics
// for Go, designed for backend services that need reproducible in-memory
// training and inference.
//
// ClusterGo offers a scikit-learn-like API built on gonum matrices: a
// parallel k-means trainer with pluggable distance metrics and centroid
// initializers, mutual-information agreement metrics (NMI/AMI), dataset
// construction from named-feature records, and standardization
// preprocessing.
//
// # Quick Start
//
// Here's a simple example of k-means clustering:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/clustergo/cluster"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 2, []float64{
//	        0.1, 0.2,
//	        0.0, 0.1,
//	        0.2, 0.0,
//	        9.9, 10.1,
//	        10.0, 9.8,
//	        10.2, 10.0,
//	    })
//
//	    km := cluster.NewKMeans(
//	        cluster.WithNClusters(2),
//	        cluster.WithRandomState(42),
//	    )
//	    if err := km.Fit(X, nil); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Centroids:", km.ClusterCenters())
//	    fmt.Println("Labels:", km.Labels())
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - cluster: K-means trainer, distance metrics, centroid initializers
//   - metrics: Partition agreement metrics (NMI, AMI)
//   - dataset: Named-feature datasets and CSV ingestion
//   - preprocessing: Data preprocessing utilities
//   - core/model: Core interfaces and base types
//   - core/parallel: Parallel processing utilities
//
// # Reproducibility
//
// All randomized components (centroid initialization, empty-centroid
// reseeding) draw from a caller-seeded RNG, and parallel reductions merge
// partial results in a fixed order, so training with the same data, seed
// and worker count produces identical models.
//
// # License
//
// ClusterGo is released under the MIT License.
package clustergo
