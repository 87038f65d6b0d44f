package plots

import (
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

// Default cell size for SaveGrid.
const (
	DefaultCellWidth  = 4 * vg.Inch
	DefaultCellHeight = 1.5 * vg.Inch
)

// Save writes p to path. The format follows the file extension. Zero sizes
// default to 4 inches.
func Save(p *plot.Plot, w, h vg.Length, path string) error {
	if w == 0 {
		w = 4 * vg.Inch
	}
	if h == 0 {
		h = 4 * vg.Inch
	}
	if err := mkdirFor(path); err != nil {
		return err
	}
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	log.GetLoggerWithName("plots").Info("Saved figure", log.FilePathKey, path, log.OperationKey, log.OperationPlot)
	return nil
}

// SaveGrid tiles grid into a single image of cellW × cellH per cell and writes
// it to path. Zero sizes use the defaults. Rows may be ragged.
func SaveGrid(grid [][]*plot.Plot, cellW, cellH vg.Length, path string) (err error) {
	defer errors.Recover(&err, "plots.SaveGrid")

	rows := len(grid)
	cols := 0
	for _, row := range grid {
		cols = max(cols, len(row))
	}
	if rows == 0 || cols == 0 {
		return errors.ErrEmptyData
	}
	if cellW == 0 {
		cellW = DefaultCellWidth
	}
	if cellH == 0 {
		cellH = DefaultCellHeight
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := draw.NewFormattedCanvas(vg.Length(cols)*cellW, vg.Length(rows)*cellH, format)
	if err != nil {
		return errors.Wrapf(err, "create canvas for %s", path)
	}

	// plot.Align needs a full rectangle; missing cells stay blank.
	full := make([][]*plot.Plot, rows)
	for i, row := range grid {
		full[i] = make([]*plot.Plot, cols)
		copy(full[i], row)
	}
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Points(2), PadBottom: vg.Points(2),
		PadLeft: vg.Points(2), PadRight: vg.Points(2),
	}
	canvases := plot.Align(full, tiles, draw.New(c))
	for i := range full {
		for j, p := range full[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}

	if err := mkdirFor(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	log.GetLoggerWithName("plots").Info("Saved figure grid", log.FilePathKey, path, "rows", rows, "cols", cols)
	return nil
}

func mkdirFor(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	return nil
}
