package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		plain     string
		grouped   string
	}{
		{name: "precision 2", precision: 2, value: 3.14159, plain: "3.14", grouped: "3.14"},
		{name: "precision 0", precision: 0, value: 10775000, plain: "10775000", grouped: "10,775,000"},
		{name: "precision 1 large", precision: 1, value: 55100.3, plain: "55100.3", grouped: "55,100.3"},
		{name: "negative value", precision: 2, value: -42.567, plain: "-42.57", grouped: "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, fmtGrouped := createFormatters(tt.precision)
			assert.Equal(t, tt.plain, fmtFloat(tt.value))
			assert.Equal(t, tt.grouped, fmtGrouped(tt.value))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, []schema.Annotation{{Year: 2020, Event: "COVID-19"}}))
	assert.Equal(t, "[\n  {\n    \"year\": 2020,\n    \"event\": \"COVID-19\"\n  }\n]\n", buf.String())
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVWithHeader(w, []string{"year", "event"}, func(w *csv.Writer) error {
		return w.Write([]string{"2008", "Financial crisis, recession"})
	})
	require.NoError(t, err)
	w.Flush()
	assert.Equal(t, "year,event\n2008,\"Financial crisis, recession\"\n", buf.String())
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(csv.NewWriter(&buf), []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileActualFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("runway"))
		return err
	}, "Wrote test")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "runway", string(content))
}

func TestWriteWithFileError(t *testing.T) {
	err := writeWithFile(filepath.Join(t.TempDir(), "out.txt"), func(io.Writer) error {
		return assert.AnError
	}, "Wrote test")
	assert.ErrorIs(t, err, assert.AnError)

	err = writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error {
		return nil
	}, "Wrote test")
	assert.Error(t, err)
}

func TestWriteToPathRequiresFile(t *testing.T) {
	err := writeToPath("", func(string) error { return nil }, "Wrote test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	rows := [][]any{{2019, 9405000.0}, {2020, 2506000.0}}
	require.NoError(t, writeXLSX(path, "Trends", []string{"year", "value"}, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows("Trends")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"year", "value"}, got[0])
	assert.Equal(t, "2019", got[1][0])
	assert.Equal(t, "2506000", got[2][1])
}

func TestDispatchUnsupportedFormat(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: filepath.Join(t.TempDir(), "x.parquet")}
	err := dispatch(cfg, formatWriters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestWriteFooter(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Start: 2005, End: 2015, CacheBackend: schema.SQLiteBackend}
	require.NoError(t, writeFooter(&buf, "Showing 3 rows", cfg, 1500*time.Microsecond))
	assert.Equal(t, "Showing 3 rows\nComputed in 1.5ms. Years 2005-2015. Cache backend: sqlite\n", buf.String())
}
