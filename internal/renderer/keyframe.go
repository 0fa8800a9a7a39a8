package renderer

// Keyframe is a camera window at a time offset within one shot
type Keyframe struct {
	Time float64   `yaml:"time" json:"time"` // seconds from shot start
	Rect Rectangle `yaml:"rect" json:"rect"` // region the camera centers on
	Zoom float64   `yaml:"zoom" json:"zoom"` // 1.0 = full frame
}

// Rectangle is a region of the source frame in pixels
type Rectangle struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Center returns the rectangle midpoint
func (r Rectangle) Center() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// FullFrame is the whole width x height source frame
func FullFrame(width, height int) Rectangle {
	return Rectangle{X: 0, Y: 0, W: width, H: height}
}
