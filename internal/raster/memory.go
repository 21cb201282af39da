package raster

import "fmt"

// MemoryDataset is an in-memory Dataset for tests and synthetic grids.
type MemoryDataset struct {
	path   string
	width  int
	height int
	gt     [6]float64
	nodata *float64
	bands  [][]float64
	closed bool
}

// NewMemoryDataset builds a dataset from row-major band slices. Every band
// must hold width*height values.
func NewMemoryDataset(path string, width, height int, gt [6]float64, nodata *float64, bands ...[]float64) (*MemoryDataset, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster %s has no bands", path)
	}
	for i, b := range bands {
		if len(b) != width*height {
			return nil, fmt.Errorf("band %d has %d values, want %d", i+1, len(b), width*height)
		}
	}

	var nd *float64
	if nodata != nil {
		v := *nodata
		nd = &v
	}

	return &MemoryDataset{
		path:   path,
		width:  width,
		height: height,
		gt:     gt,
		nodata: nd,
		bands:  bands,
	}, nil
}

func (m *MemoryDataset) Path() string { return m.path }

func (m *MemoryDataset) Size() (int, int) { return m.width, m.height }

func (m *MemoryDataset) Bands() int { return len(m.bands) }

func (m *MemoryDataset) NoData() *float64 {
	if m.nodata == nil {
		return nil
	}
	v := *m.nodata
	return &v
}

func (m *MemoryDataset) GeoTransform() [6]float64 { return m.gt }

func (m *MemoryDataset) ReadWindow(band int, w Window) ([]float64, error) {
	if m.closed {
		return nil, fmt.Errorf("raster %s is closed", m.path)
	}
	if band < 1 || band > len(m.bands) {
		return nil, fmt.Errorf("band %d out of range (raster has %d bands)", band, len(m.bands))
	}
	if w.Col < 0 || w.Row < 0 || w.Width <= 0 || w.Height <= 0 ||
		w.Col+w.Width > m.width || w.Row+w.Height > m.height {
		return nil, fmt.Errorf("window %+v outside raster extent %dx%d", w, m.width, m.height)
	}

	src := m.bands[band-1]
	out := make([]float64, 0, w.Width*w.Height)
	for r := w.Row; r < w.Row+w.Height; r++ {
		start := r*m.width + w.Col
		out = append(out, src[start:start+w.Width]...)
	}
	return out, nil
}

func (m *MemoryDataset) Close() error {
	m.closed = true
	return nil
}
