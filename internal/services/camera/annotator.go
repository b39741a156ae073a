package camera

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"storewatch-worker-go/internal/models"
)

// Annotator renders detection results onto a frame and encodes the result as
// JPEG for snapshots and live streaming.
type Annotator interface {
	Annotate(frame *models.RawFrame, result *models.DetectionResult, avgInferenceMs float64) ([]byte, error)
}

var (
	staffColor    = color.RGBA{R: 0, G: 255, B: 0, A: 255}   // Green
	customerColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}   // Red
	textColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255} // White
)

type jpegAnnotator struct {
	quality int
}

// NewAnnotator returns the default OpenCV-backed annotator. quality is the
// JPEG encoding quality for snapshots.
func NewAnnotator(quality int) Annotator {
	return &jpegAnnotator{quality: quality}
}

func (a *jpegAnnotator) Annotate(frame *models.RawFrame, result *models.DetectionResult, avgInferenceMs float64) ([]byte, error) {
	if frame == nil || len(frame.Data) == 0 {
		return nil, fmt.Errorf("empty frame for channel annotation")
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from frame data: %w", err)
	}
	defer mat.Close()

	for _, det := range result.Detections {
		a.drawDetection(&mat, det)
	}
	a.drawSummary(&mat, result.StaffCount, result.CustomerCount, avgInferenceMs)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, a.quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close, so the bytes must be copied out.
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}

func (a *jpegAnnotator) drawDetection(mat *gocv.Mat, det models.Detection) {
	width, height := mat.Cols(), mat.Rows()

	x1 := max(0, min(width-2, int(det.X1)))
	y1 := max(0, min(height-2, int(det.Y1)))
	x2 := max(x1+1, min(width-1, int(det.X2)))
	y2 := max(y1+1, min(height-1, int(det.Y2)))

	boxColor := customerColor
	if det.ClassID == models.ClassStaff {
		boxColor = staffColor
	}

	gocv.Rectangle(mat, image.Rect(x1, y1, x2, y2), boxColor, 2)

	label := fmt.Sprintf("%s: %.0f%%", det.ClassName, det.Confidence*100)
	a.drawLabel(mat, label, x1, y1, boxColor)
}

// drawLabel draws the class label above the box on a filled background in the
// box color, flipping below the corner when there is no room above.
func (a *jpegAnnotator) drawLabel(mat *gocv.Mat, text string, x, y int, bgColor color.RGBA) {
	fontFace := gocv.FontHersheySimplex
	fontScale := 0.5
	thickness := 1

	textSize := gocv.GetTextSize(text, fontFace, fontScale, thickness)

	labelY := y - 6
	if labelY < textSize.Y+4 {
		labelY = y + textSize.Y + 6
	}

	labelX := x
	if labelX+textSize.X > mat.Cols() {
		labelX = max(0, mat.Cols()-textSize.X-4)
	}

	gocv.Rectangle(mat,
		image.Rect(labelX-2, labelY-textSize.Y-4, labelX+textSize.X+2, labelY+4),
		bgColor, -1)
	gocv.PutText(mat, text, image.Pt(labelX, labelY), fontFace, fontScale, textColor, thickness)
}

// drawSummary draws the per-frame counts overlay in the top-left corner.
func (a *jpegAnnotator) drawSummary(mat *gocv.Mat, staff, customer int, avgInferenceMs float64) {
	summary := fmt.Sprintf("Staff: %d | Customer: %d | %.0fms", staff, customer, avgInferenceMs)
	gocv.PutText(mat, summary, image.Pt(10, 30), gocv.FontHersheySimplex, 0.7, textColor, 2)
}
