package democatalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

// descriptorFile is the on-disk JSON shape of one catalogue entry. Fields
// map directly onto model.Descriptor; TimeRange fields are RFC3339 strings
// and both may be empty, which produces a Timeless descriptor.
type descriptorFile struct {
	ID              string      `json:"id"`
	TimeStart       string      `json:"time_start,omitempty"`
	TimeEnd         string      `json:"time_end,omitempty"`
	Envelope        []float64   `json:"envelope_min_max"` // [min0,max0,min1,max1,...]
	GeographicArea  [4]float64  `json:"geographic_area"`  // [minLon,minLat,maxLon,maxLat]
	Transform       [6]float64  `json:"transform"`
	MinColRow       [2]int      `json:"min_col_row"` // [col, row]
	MaxColRow       [2]int      `json:"max_col_row"` // [col, row], exclusive
	Bands           []bandFile  `json:"bands"`
	CoordinateAxes  []string    `json:"coordinate_axes"`
	CoordinateName  string      `json:"coordinate_name"`
	BandDataPath    string      `json:"band_data_path"` // relative to the descriptor file's directory
}

type bandFile struct {
	Name        string  `json:"name"`
	Units       string  `json:"units"`
	NoData      float64 `json:"no_data"`
	Categorical bool    `json:"categorical"`
}

// descriptor implements model.Descriptor over a parsed descriptorFile.
type descriptor struct {
	id         string
	timeRange  *model.TimeRange
	centerTime time.Time
	envelope   model.Envelope
	geoArea    model.Rectangle
	grid       model.GridGeometry
	bands      []model.Band
	cs         model.CS
	dataPath   string // path to the flat-file band grid, joined onto the catalogue directory
}

func (d *descriptor) ID() string                          { return d.id }
func (d *descriptor) CenterTime() time.Time                { return d.centerTime }
func (d *descriptor) Envelope() model.Envelope              { return d.envelope }
func (d *descriptor) GeographicArea() model.Rectangle       { return d.geoArea }
func (d *descriptor) GridGeometry() model.GridGeometry      { return d.grid }
func (d *descriptor) SampleBands() []model.Band             { return d.bands }
func (d *descriptor) CoordinateSystem() model.CS            { return d.cs }

func (d *descriptor) TimeRange() (model.TimeRange, bool) {
	if d.timeRange == nil {
		return model.TimeRange{}, false
	}
	return *d.timeRange, true
}

// parseDescriptorFile loads one *.json descriptor file. dataPath is resolved
// relative to dir, the directory the descriptor file was found in.
func parseDescriptorFile(dir, path string) (*descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("democatalog: failed to read descriptor %q: %w", path, err)
	}
	var df descriptorFile
	if err := json.Unmarshal(raw, &df); err != nil {
		return nil, fmt.Errorf("democatalog: failed to parse descriptor %q: %w", path, err)
	}
	if df.ID == "" {
		return nil, fmt.Errorf("democatalog: descriptor %q missing id", path)
	}
	if df.BandDataPath == "" {
		return nil, fmt.Errorf("democatalog: descriptor %q missing band_data_path", path)
	}

	var tr *model.TimeRange
	if df.TimeStart != "" || df.TimeEnd != "" {
		var start, end time.Time
		if df.TimeStart != "" {
			start, err = time.Parse(time.RFC3339, df.TimeStart)
			if err != nil {
				return nil, fmt.Errorf("democatalog: descriptor %q has invalid time_start: %w", path, err)
			}
		}
		if df.TimeEnd != "" {
			end, err = time.Parse(time.RFC3339, df.TimeEnd)
			if err != nil {
				return nil, fmt.Errorf("democatalog: descriptor %q has invalid time_end: %w", path, err)
			}
		}
		tr = &model.TimeRange{Start: start, End: end}
	}

	envelope := model.Envelope{}
	for i := 0; i+1 < len(df.Envelope); i += 2 {
		envelope.Min = append(envelope.Min, df.Envelope[i])
		envelope.Max = append(envelope.Max, df.Envelope[i+1])
	}

	bands := make([]model.Band, len(df.Bands))
	for i, b := range df.Bands {
		bands[i] = model.Band{Name: b.Name, Units: b.Units, NoData: b.NoData, Categorical: b.Categorical}
	}

	axes := df.CoordinateAxes
	if len(axes) == 0 {
		axes = []string{"x", "y", "t"}
	}
	name := df.CoordinateName
	if name == "" {
		name = "democatalog"
	}

	return &descriptor{
		id:         df.ID,
		timeRange:  tr,
		centerTime: model.DeriveCenterTime(tr),
		envelope:   envelope,
		geoArea: model.Rectangle{
			MinLon: df.GeographicArea[0],
			MinLat: df.GeographicArea[1],
			MaxLon: df.GeographicArea[2],
			MaxLat: df.GeographicArea[3],
		},
		grid: model.GridGeometry{
			Transform: df.Transform,
			MinCol:    df.MinColRow[0],
			MinRow:    df.MinColRow[1],
			MaxCol:    df.MaxColRow[0],
			MaxRow:    df.MaxColRow[1],
		},
		bands:    bands,
		cs:       model.CS{Name: name, Axes: axes},
		dataPath: filepath.Join(dir, filepath.Clean(df.BandDataPath)),
	}, nil
}
