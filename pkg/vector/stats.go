package vector

import (
	"math"

	"github.com/matzehuels/quiver/pkg/units"
)

// Stats accumulates magnitudes and glyph lengths over drawn nodes.
// Lengths are kept in internal units (inches or km) and converted once in
// Report. The zero value is ready to use.
type Stats struct {
	Drawn int

	magMin, magMax, magSum float64
	lenMin, lenMax, lenSum float64

	NoData  int
	Zero    int
	Outside int

	Warnings [3]int // indexed by Warning
}

// Add records one drawn node.
func (s *Stats) Add(mag, length float64) {
	length = math.Abs(length)
	if s.Drawn == 0 {
		s.magMin, s.magMax = mag, mag
		s.lenMin, s.lenMax = length, length
	} else {
		s.magMin = math.Min(s.magMin, mag)
		s.magMax = math.Max(s.magMax, mag)
		s.lenMin = math.Min(s.lenMin, length)
		s.lenMax = math.Max(s.lenMax, length)
	}
	s.magSum += mag
	s.lenSum += length
	s.Drawn++
}

// Skip records a skipped node.
func (s *Stats) Skip(r SkipReason) {
	switch r {
	case SkipNoData:
		s.NoData++
	case SkipZero:
		s.Zero++
	case SkipOutside:
		s.Outside++
	}
}

// Warn records a geovector warning.
func (s *Stats) Warn(w Warning) {
	if w > WarnNone && int(w) < len(s.Warnings) {
		s.Warnings[w]++
	}
}

// Skipped returns the total number of skipped nodes.
func (s *Stats) Skipped() int { return s.NoData + s.Zero + s.Outside }

// Report is a summary of Stats with lengths in the user's unit.
type Report struct {
	Drawn   int     `json:"drawn"`
	MagMin  float64 `json:"mag_min"`
	MagMax  float64 `json:"mag_max"`
	MagMean float64 `json:"mag_mean"`
	LenMin  float64 `json:"len_min"`
	LenMax  float64 `json:"len_max"`
	LenMean float64 `json:"len_mean"`
	LenUnit string  `json:"len_unit"`
	// ConstantLength marks constant-length scales, whose Len fields are
	// left zero since every glyph has the same length.
	ConstantLength bool `json:"constant_length,omitempty"`

	NoData  int `json:"skipped_nodata"`
	Zero    int `json:"skipped_zero"`
	Outside int `json:"skipped_outside"`

	HeadCapped  int `json:"warn_head_capped"`
	HeadOverCap int `json:"warn_head_over_cap"`
}

// Report converts the accumulated values for display. Geographic scales
// report lengths in km, plot scales in their own unit.
func (s *Stats) Report(scale units.Scale) Report {
	r := Report{
		Drawn:       s.Drawn,
		LenUnit:     scale.UserUnitName(),
		NoData:      s.NoData,
		Zero:        s.Zero,
		Outside:     s.Outside,
		HeadCapped:  s.Warnings[WarnHeadCapped],
		HeadOverCap: s.Warnings[WarnHeadOverCap],
	}
	if s.Drawn == 0 {
		return r
	}
	n := float64(s.Drawn)
	r.MagMin, r.MagMax, r.MagMean = s.magMin, s.magMax, s.magSum/n
	if scale.Constant {
		r.ConstantLength = true
		return r
	}
	r.LenMin = scale.ToUser(s.lenMin)
	r.LenMax = scale.ToUser(s.lenMax)
	r.LenMean = scale.ToUser(s.lenSum / n)
	return r
}

// HasWarnings reports whether any glyph warning was recorded.
func (r Report) HasWarnings() bool { return r.HeadCapped+r.HeadOverCap > 0 }
