package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name         string    `json:"name"`
	ProfitFactor dto.Ratio `json:"profit_factor"`
	Omega        dto.Ratio `json:"omega"`
	Weights      []float64 `json:"weights"`
}

var value = sample{
	Name:         "express",
	ProfitFactor: dto.UndefinedRatio(dto.ReasonNoLosses),
	Omega:        dto.DefinedRatio(1.5),
	Weights:      []float64{0.6, 0.4},
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "JSON")
	require.NoError(t, err)
	require.NoError(t, p.Print(value))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "express", got["name"])
	assert.Equal(t, dto.ReasonNoLosses, got["profit_factor"])
	assert.Equal(t, 1.5, got["omega"])
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "yaml")
	require.NoError(t, err)
	require.NoError(t, p.Print(value))

	want := `name: express
profit_factor: undefined (no losses)
omega: 1.5
weights:
  - 0.6
  - 0.4
`
	assert.Equal(t, want, buf.String())
}

func TestNewPrinter_UnknownFormat(t *testing.T) {
	_, err := NewPrinter(&bytes.Buffer{}, "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}
