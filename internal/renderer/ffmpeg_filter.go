package renderer

import (
	"fmt"
	"strings"
)

// GenerateZoomPanFilter creates an FFmpeg zoompan filter that follows the
// keyframes over one shot. Input is expected at width x height.
func GenerateZoomPanFilter(keyframes []Keyframe, duration float64, fps int, width, height int) string {
	if len(keyframes) == 0 {
		return ""
	}

	frames := int(duration * float64(fps))
	if frames < 1 {
		frames = 1
	}

	zoomExpr := buildExpression(keyframes, fps, func(kf Keyframe) float64 { return kf.Zoom })
	xExpr := buildExpression(keyframes, fps, func(kf Keyframe) float64 { return panOffset(kf, width, true) })
	yExpr := buildExpression(keyframes, fps, func(kf Keyframe) float64 { return panOffset(kf, height, false) })

	return fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=%d:s=%dx%d:fps=%d",
		zoomExpr, xExpr, yExpr, frames, width, height, fps)
}

// buildExpression creates a piecewise linear expression over the output
// frame number for one keyframe property
func buildExpression(keyframes []Keyframe, fps int, value func(Keyframe) float64) string {
	if len(keyframes) == 1 {
		return fmt.Sprintf("%.6f", value(keyframes[0]))
	}

	var b strings.Builder
	open := 0
	for i := 0; i < len(keyframes)-1; i++ {
		startFrame := int(keyframes[i].Time * float64(fps))
		endFrame := int(keyframes[i+1].Time * float64(fps))
		if endFrame <= startFrame {
			continue
		}

		startVal, endVal := value(keyframes[i]), value(keyframes[i+1])
		// if(lte(on,end),start+(on-startFrame)/(end-startFrame)*(endVal-startVal),...)
		fmt.Fprintf(&b, "if(lte(on,%d),%.6f+(on-%d)/%d*(%.6f-%.6f),",
			endFrame, startVal, startFrame, endFrame-startFrame, endVal, startVal)
		open++
	}

	fmt.Fprintf(&b, "%.6f", value(keyframes[len(keyframes)-1]))
	b.WriteString(strings.Repeat(")", open))
	return b.String()
}

// panOffset converts a keyframe center into the zoompan top-left offset,
// clamped so the window stays inside the frame
func panOffset(kf Keyframe, dimension int, isX bool) float64 {
	cx, cy := kf.Rect.Center()
	center := cy
	if isX {
		center = cx
	}

	zoom := kf.Zoom
	if zoom < 1 {
		zoom = 1
	}
	window := float64(dimension) / zoom
	offset := center - window/2
	if offset < 0 {
		offset = 0
	}
	if limit := float64(dimension) - window; offset > limit {
		offset = limit
	}
	return offset
}

// GenerateFadeFilter returns fade-in/out filters for a shot with the given
// transition length, or "" when fade is zero
func GenerateFadeFilter(duration, fade float64) string {
	if fade <= 0 || duration <= 2*fade {
		return ""
	}
	return fmt.Sprintf("fade=t=in:st=0:d=%.2f,fade=t=out:st=%.2f:d=%.2f", fade, duration-fade, fade)
}
