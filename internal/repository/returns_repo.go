package repository

import (
	"context"
	"fmt"

	"golang-p2p-risk/pkg/apperror"
	"golang-p2p-risk/pkg/logger"
)

// ReturnsRepository reads return series. The header row is optional; a file
// whose first row is numeric is treated as headerless.
type ReturnsRepository interface {
	// LoadSeries reads the "return" column, or the first column when there
	// is none.
	LoadSeries(ctx context.Context, path string) ([]float64, error)
	// LoadMatrix reads a periods x assets matrix and the asset names from the
	// header (empty when the file has none).
	LoadMatrix(ctx context.Context, path string) ([][]float64, []string, error)
}

type returnsRepository struct {
	log *logger.Logger
}

func NewReturnsRepository(log *logger.Logger) ReturnsRepository {
	return &returnsRepository{log: log}
}

func (r *returnsRepository) LoadSeries(ctx context.Context, path string) ([]float64, error) {
	t, err := readTable(path, false)
	if err != nil {
		return nil, err
	}

	col := t.column("return", "returns")
	if col < 0 {
		col = 0
	}

	series := make([]float64, 0, len(t.rows))
	for i := range t.rows {
		v, ok, err := t.float(i, col)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, t.invalid(i, "return is empty")
		}
		series = append(series, v)
	}

	r.log.DebugContext(ctx, "Loaded return series", logger.StringField("path", path), logger.IntField("observations", len(series)))
	return series, nil
}

func (r *returnsRepository) LoadMatrix(ctx context.Context, path string) ([][]float64, []string, error) {
	t, err := readTable(path, false)
	if err != nil {
		return nil, nil, err
	}

	width := len(t.header)
	if width == 0 && len(t.rows) > 0 {
		width = len(t.rows[0])
	}
	if width == 0 {
		return nil, nil, apperror.InvalidInput("repository.LoadMatrix", "%s: no columns", path)
	}

	matrix := make([][]float64, 0, len(t.rows))
	for i := range t.rows {
		if len(t.rows[i]) != width {
			return nil, nil, t.invalid(i, "expected %d columns, got %d", width, len(t.rows[i]))
		}
		row := make([]float64, width)
		for j := range row {
			v, ok, err := t.float(i, j)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				return nil, nil, t.invalid(i, "column %s is empty", t.name(j))
			}
			row[j] = v
		}
		matrix = append(matrix, row)
	}

	r.log.DebugContext(ctx, "Loaded return matrix",
		logger.StringField("path", path),
		logger.StringField("shape", fmt.Sprintf("%dx%d", len(matrix), width)),
	)
	return matrix, t.header, nil
}
