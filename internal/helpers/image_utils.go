package helpers

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ConvertBGRToJPEG encodes raw BGR frame bytes as JPEG. When the provided
// dimensions do not match the data length, the resolution is inferred from
// a list of common frame sizes.
func ConvertBGRToJPEG(bgrData []byte, width, height int, quality int) ([]byte, error) {
	if len(bgrData) == 0 {
		return nil, fmt.Errorf("empty BGR data")
	}

	totalBytes := len(bgrData)
	if width <= 0 || height <= 0 || width*height*3 != totalBytes {
		w, h, ok := guessDimensionsFromLength(totalBytes)
		if !ok {
			return nil, fmt.Errorf("unable to infer frame dimensions from BGR length=%d", totalBytes)
		}
		width, height = w, h
	}

	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, bgrData)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from BGR data: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode BGR as JPEG: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close, so copy the bytes out.
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}

// guessDimensionsFromLength tries common resolutions whose BGR byte count
// matches the payload length.
func guessDimensionsFromLength(totalBytes int) (int, int, bool) {
	if totalBytes%3 != 0 {
		return 0, 0, false
	}
	pixels := totalBytes / 3

	common := [][2]int{
		{3840, 2160}, {2560, 1440}, {1920, 1080}, {1600, 900},
		{1280, 960}, {1280, 720}, {1024, 768}, {1024, 576},
		{854, 480}, {800, 600}, {800, 450}, {720, 480},
		{704, 576}, {640, 480}, {640, 360}, {480, 270},
		{426, 240}, {352, 288}, {320, 240},
	}
	for _, wh := range common {
		if wh[0]*wh[1] == pixels {
			return wh[0], wh[1], true
		}
	}

	return 0, 0, false
}
