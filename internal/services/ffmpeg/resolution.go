package ffmpeg

import "fmt"

// FitResolution computes the scale and pad arguments that fit a source
// resolution into a target while preserving aspect ratio. The scaled frame
// is centered and the remainder filled with black bars; scaled dimensions
// are rounded up to even values as the encoders require.
//
// Returns nil when no target is given or the source already matches.
func FitResolution(srcW, srcH, dstW, dstH int) []string {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return nil
	}
	if srcW == dstW && srcH == dstH {
		return nil
	}

	aspect := float64(srcW) / float64(srcH)
	if aspect > float64(dstW)/float64(dstH) {
		// Wider than the target: full width, letterbox top and bottom.
		scaledH := roundEven(float64(dstW) / aspect)
		pad := (dstH - scaledH) / 2
		return []string{
			"-s", fmt.Sprintf("%dx%d", dstW, scaledH),
			"-vf", fmt.Sprintf("pad=%d:%d:0:%d:black", dstW, dstH, pad),
		}
	}
	// Taller than the target: full height, pillarbox left and right.
	scaledW := roundEven(float64(dstH) * aspect)
	pad := (dstW - scaledW) / 2
	return []string{
		"-s", fmt.Sprintf("%dx%d", scaledW, dstH),
		"-vf", fmt.Sprintf("pad=%d:%d:%d:0:black", dstW, dstH, pad),
	}
}

func roundEven(value float64) int {
	rounded := int(value + 0.5)
	if rounded%2 == 1 {
		rounded++
	}
	return rounded
}
