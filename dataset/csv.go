package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/clustergo/pkg/errors"
)

// FromCSV はCSVからDatasetを構築する。
// 先頭行を特徴量名のヘッダとして扱い、以降の行の全セルを数値として
// パースする。パースできないセルがある場合は行・カラムを示すエラーを返す。
func FromCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewValueError("dataset.FromCSV", "empty input")
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset.FromCSV: failed to read header")
	}
	if len(header) == 0 {
		return nil, errors.NewValueError("dataset.FromCSV", "header has no columns")
	}

	var values []float64
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset.FromCSV: failed to read row %d", rows+1)
		}

		for col, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset.FromCSV: row %d, column %q: not a number", rows+1, header[col])
			}
			values = append(values, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, errors.NewValueError("dataset.FromCSV", "no data rows")
	}

	return FromMatrix(mat.NewDense(rows, len(header), values), header)
}
