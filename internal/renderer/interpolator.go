package renderer

// CameraState represents the camera position and zoom at a specific moment
type CameraState struct {
	X    float64 // window center X in pixels
	Y    float64 // window center Y in pixels
	Zoom float64 // 1.0 = no zoom
}

// Window returns the visible source region for a width x height frame
func (c CameraState) Window(width, height int) Rectangle {
	zoom := c.Zoom
	if zoom < 1 {
		zoom = 1
	}
	w := int(float64(width) / zoom)
	h := int(float64(height) / zoom)
	x := int(c.X) - w/2
	y := int(c.Y) - h/2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > width {
		x = width - w
	}
	if y+h > height {
		y = height - h
	}
	return Rectangle{X: x, Y: y, W: w, H: h}
}

// InterpolateKeyframes calculates camera state at a given time by interpolating between keyframes
func InterpolateKeyframes(keyframes []Keyframe, currentTime float64) CameraState {
	if len(keyframes) == 0 {
		return CameraState{X: 0, Y: 0, Zoom: 1.0}
	}

	// Clamp to the first and last keyframe
	if currentTime <= keyframes[0].Time {
		return stateOf(keyframes[0])
	}
	if currentTime >= keyframes[len(keyframes)-1].Time {
		return stateOf(keyframes[len(keyframes)-1])
	}

	// Find surrounding keyframes
	var prevKf, nextKf Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if currentTime >= keyframes[i].Time && currentTime < keyframes[i+1].Time {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta == 0 {
		timeDelta = 0.001 // Avoid division by zero
	}
	t := easeInOutCubic((currentTime - prevKf.Time) / timeDelta)

	prev, next := stateOf(prevKf), stateOf(nextKf)
	return CameraState{
		X:    lerp(prev.X, next.X, t),
		Y:    lerp(prev.Y, next.Y, t),
		Zoom: lerp(prev.Zoom, next.Zoom, t),
	}
}

func stateOf(kf Keyframe) CameraState {
	x, y := kf.Rect.Center()
	return CameraState{X: x, Y: y, Zoom: kf.Zoom}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
