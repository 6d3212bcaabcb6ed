package chess

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	corechess "github.com/park285/chessboard/internal/chess"
	"github.com/park285/chessboard/internal/controller"
)

const defaultSquareSize = 64

type RenderOptions struct {
	// HUDHeader is the title panel text, usually the session label.
	HUDHeader string
	// HUDStatus defaults to the snapshot status line.
	HUDStatus string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, snap controller.Snapshot, opts RenderOptions) ([]byte, error)
}

type pngBoardRenderer struct {
	squareSize int
	face       font.Face
}

// NewPNGBoardRenderer draws boards with squareSize pixel squares.
func NewPNGBoardRenderer(squareSize int) BoardRenderer {
	if squareSize < 16 {
		squareSize = defaultSquareSize
	}
	return &pngBoardRenderer{squareSize: squareSize, face: basicfont.Face7x13}
}

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, snap controller.Snapshot, opts RenderOptions) ([]byte, error) {
	if len(snap.Squares) != 64 {
		return nil, fmt.Errorf("snapshot has %d squares", len(snap.Squares))
	}

	const (
		sideMargin    = 28
		topMargin     = 84
		bottomMargin  = 28
		panelHeight   = 26
		panelGap      = 8
		gapToBoard    = 12
		panelRadius   = 8
		panelPaddingX = 16
		panelMinWidth = 120
		shadowOffsetY = 3
	)
	squareSize := r.squareSize
	boardSize := squareSize * 8

	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	boardOrigin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(boardOrigin.X, boardOrigin.Y, boardOrigin.X+boardSize, boardOrigin.Y+boardSize)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	title := strings.TrimSpace(opts.HUDHeader)
	if title == "" {
		title = "Chess"
	}
	status := strings.TrimSpace(opts.HUDStatus)
	if status == "" {
		status = snap.StatusText
	}
	drawer := &font.Drawer{Dst: img, Face: r.face}
	statusBottom := boardRect.Min.Y - gapToBoard
	statusRect := panelRect(drawer, status, boardRect, statusBottom-panelHeight, statusBottom, panelPaddingX, panelMinWidth)
	titleBottom := statusRect.Min.Y - panelGap
	titleRect := panelRect(drawer, title, boardRect, titleBottom-panelHeight, titleBottom, panelPaddingX, panelMinWidth)

	for _, p := range []struct {
		rect image.Rectangle
		fill color.Color
		text string
		ink  color.Color
	}{
		{titleRect, hudPanelColor, title, hudTextPrimary},
		{statusRect, statusPanelColor(snap.Status), status, hudTurnTextColor},
	} {
		drawRoundedPanel(img, p.rect.Add(image.Pt(0, shadowOffsetY)), panelRadius, hudShadowColor)
		drawRoundedPanel(img, p.rect, panelRadius, p.fill)
		text := truncateWithEllipsis(r.face, p.text, p.rect.Dx()-panelPaddingX*2)
		drawCenteredString(drawer, p.rect, text, p.ink)
	}

	drawBoardShadow(img, boardRect)
	drawSquares(img, snap, squareSize, boardOrigin)
	drawHighlights(img, snap, squareSize, boardOrigin)
	if err := drawPieces(img, snap, squareSize, boardOrigin); err != nil {
		return nil, err
	}
	drawTargets(img, snap, squareSize, boardOrigin)
	drawLastMoveArrow(img, snap, squareSize, boardOrigin)
	drawCoordinates(drawer, snap.Flipped, squareSize, boardOrigin, sideMargin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

var (
	backgroundColor         = color.RGBA{R: 22, G: 24, B: 34, A: 255}
	lightSquare             = color.RGBA{233, 207, 163, 255}
	darkSquare              = color.RGBA{187, 136, 96, 255}
	selectedFill            = color.NRGBA{R: 120, G: 190, B: 120, A: 150}
	lastMoveFill            = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	checkFill               = color.NRGBA{R: 230, G: 60, B: 60, A: 170}
	targetDot               = color.NRGBA{R: 30, G: 30, B: 30, A: 90}
	blackMoveHighlightArrow = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	hudPanelColor           = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor       = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudOverPanelColor       = color.NRGBA{R: 92, G: 40, B: 48, A: 245}
	hudShadowColor          = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary          = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor        = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor        = color.NRGBA{0, 0, 0, 60}
	coordinateTextColor     = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func statusPanelColor(st corechess.Status) color.Color {
	if st.IsOver() {
		return hudOverPanelColor
	}
	return hudTurnPanelColor
}

func panelRect(drawer *font.Drawer, text string, boardRect image.Rectangle, top, bottom, paddingX, minWidth int) image.Rectangle {
	width := drawer.MeasureString(text).Round() + paddingX*2
	if width < minWidth {
		width = minWidth
	}
	if width > boardRect.Dx() {
		width = boardRect.Dx()
	}
	left := boardRect.Min.X + (boardRect.Dx()-width)/2
	return image.Rect(left, top, left+width, bottom)
}

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	shadowRect := image.Rect(
		boardRect.Min.X+4,
		boardRect.Min.Y+8,
		boardRect.Max.X+10,
		boardRect.Max.Y+12,
	)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

// cellRect maps a display index (0 top-left) to pixels.
func cellRect(idx, squareSize int, origin image.Point) image.Rectangle {
	x := origin.X + (idx%8)*squareSize
	y := origin.Y + (idx/8)*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquares(dst imagedraw.Image, snap controller.Snapshot, squareSize int, origin image.Point) {
	for i, v := range snap.Squares {
		clr := lightSquare
		if v.Dark {
			clr = darkSquare
		}
		imagedraw.Draw(dst, cellRect(i, squareSize, origin), image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
}

func drawHighlights(img *image.RGBA, snap controller.Snapshot, squareSize int, origin image.Point) {
	for i, v := range snap.Squares {
		rect := cellRect(i, squareSize, origin)
		switch {
		case v.Check:
			imagedraw.Draw(img, rect, image.NewUniform(checkFill), image.Point{}, imagedraw.Over)
		case v.Selected:
			imagedraw.Draw(img, rect, image.NewUniform(selectedFill), image.Point{}, imagedraw.Over)
		case v.LastMove && !lastMoverIsBlack(snap):
			imagedraw.Draw(img, rect, image.NewUniform(lastMoveFill), image.Point{}, imagedraw.Over)
		}
	}
}

func drawPieces(dst imagedraw.Image, snap controller.Snapshot, squareSize int, origin image.Point) error {
	for i, v := range snap.Squares {
		if v.Piece.IsEmpty() {
			continue
		}
		img, err := renderPieceImage(v.Piece, squareSize)
		if err != nil {
			return err
		}
		imagedraw.Draw(dst, cellRect(i, squareSize, origin), img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawTargets(img *image.RGBA, snap controller.Snapshot, squareSize int, origin image.Point) {
	for i, v := range snap.Squares {
		if !v.Target {
			continue
		}
		rect := cellRect(i, squareSize, origin)
		center := image.Pt(rect.Min.X+squareSize/2, rect.Min.Y+squareSize/2)
		drawDisc(img, center, squareSize/7, targetDot)
	}
}

// Black's last move is drawn as an arrow, White's as a square fill.
func lastMoverIsBlack(snap controller.Snapshot) bool {
	return snap.LastTo != corechess.NoSquare && snap.Turn == corechess.White && snap.MoveCount > 0
}

func drawLastMoveArrow(img *image.RGBA, snap controller.Snapshot, squareSize int, origin image.Point) {
	if !lastMoverIsBlack(snap) {
		return
	}
	from, to := -1, -1
	for i, v := range snap.Squares {
		switch v.Square {
		case snap.LastFrom:
			from = i
		case snap.LastTo:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return
	}
	drawArrow(img, cellRect(from, squareSize, origin), cellRect(to, squareSize, origin), squareSize, blackMoveHighlightArrow)
}

func drawArrow(img *image.RGBA, startRect, endRect image.Rectangle, squareSize int, clr color.Color) {
	start := image.Pt(startRect.Min.X+squareSize/2, startRect.Min.Y+squareSize/2)
	end := image.Pt(endRect.Min.X+squareSize/2, endRect.Min.Y+squareSize/2)

	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	dirX := dx / length
	dirY := dy / length
	perpX := -dirY
	perpY := dirX

	baseLength := length - float64(squareSize)*0.45
	if baseLength < float64(squareSize)*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := float64(squareSize) * 0.12
	headWidth := float64(squareSize) * 0.32

	baseX := float64(start.X) + dirX*baseLength
	baseY := float64(start.Y) + dirY*baseLength

	fillQuad(img,
		pointF{X: float64(start.X) - perpX*halfWidth, Y: float64(start.Y) - perpY*halfWidth},
		pointF{X: float64(start.X) + perpX*halfWidth, Y: float64(start.Y) + perpY*halfWidth},
		pointF{X: baseX + perpX*halfWidth, Y: baseY + perpY*halfWidth},
		pointF{X: baseX - perpX*halfWidth, Y: baseY - perpY*halfWidth},
		clr,
	)
	fillTriangleF(img,
		pointF{X: float64(end.X), Y: float64(end.Y)},
		pointF{X: baseX - perpX*headWidth/2, Y: baseY - perpY*headWidth/2},
		pointF{X: baseX + perpX*headWidth/2, Y: baseY + perpY*headWidth/2},
		clr,
	)
}

func drawCoordinates(drawer *font.Drawer, flipped bool, squareSize int, origin image.Point, margin int) {
	ascent := drawer.Face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + 8*squareSize
	drawer.Src = image.NewUniform(coordinateTextColor)

	for i := 0; i < 8; i++ {
		rank, file := 8-i, 'a'+rune(i)
		if flipped {
			rank, file = i+1, 'h'-rune(i)
		}
		center := i*squareSize + squareSize/2
		drawCenteredText(drawer, fmt.Sprint(rank), origin.X-margin/2, origin.Y+center+ascent/2)
		drawCenteredText(drawer, string(file), origin.X+center, boardEndY+ascent+4)
	}
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius <= 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	// Cross of two rectangles plus four corner discs.
	imagedraw.Draw(img, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawQuarterDisc(img, center, radius, clr, center.X < rect.Min.X+rect.Dx()/2, center.Y < rect.Min.Y+rect.Dy()/2)
	}
}

// drawQuarterDisc fills the quadrant of a disc that faces the panel corner.
func drawQuarterDisc(img *image.RGBA, center image.Point, radius int, clr color.Color, left, top bool) {
	rSquared := radius * radius
	for y := -radius; y < 0; y++ {
		for x := -radius; x < 0; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			px, py := center.X+x, center.Y+y
			if !left {
				px = center.X - x
			}
			if !top {
				py = center.Y - y
			}
			blendPixel(img, px, py, clr)
		}
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	// RGBA() is alpha-premultiplied.
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	dstR := float64(dst.R) / 255.0
	dstG := float64(dst.G) / 255.0
	dstB := float64(dst.B) / 255.0
	dstA := float64(dst.A) / 255.0

	inv := 1 - srcA
	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8((srcR + dstR*inv) * 255.0),
		G: floatToUint8((srcG + dstG*inv) * 255.0),
		B: floatToUint8((srcB + dstB*inv) * 255.0),
		A: floatToUint8((srcA + dstA*inv) * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

type pointF struct {
	X float64
	Y float64
}

func fillQuad(img *image.RGBA, p0, p1, p2, p3 pointF, clr color.Color) {
	fillTriangleF(img, p0, p1, p2, clr)
	fillTriangleF(img, p0, p2, p3, clr)
}

func fillTriangleF(img *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInTriangle(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				blendPixel(img, x, y, clr)
			}
		}
	}
}

func pointInTriangle(x, y float64, a, b, c pointF) bool {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	alpha := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / denom
	beta := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / denom
	gamma := 1 - alpha - beta
	return alpha >= 0 && beta >= 0 && gamma >= 0
}
