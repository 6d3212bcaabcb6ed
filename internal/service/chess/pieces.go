package chess

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	corechess "github.com/park285/chessboard/internal/chess"
)

// Piece silhouettes on a 100x100 canvas. Every piece shares the base.
const pieceBase = `<path d="M22 88 L78 88 L78 80 Q50 72 22 80 Z"/>`

var pieceShapes = map[corechess.PieceType]string{
	corechess.Pawn: `<circle cx="50" cy="34" r="12"/>
<path d="M40 46 L60 46 L68 80 L32 80 Z"/>`,
	corechess.Knight: `<path d="M34 80 L36 62 Q28 56 30 46 L46 22 L52 14 L56 24 Q74 34 70 80 Z"/>
<circle cx="48" cy="32" r="3" fill="{{stroke}}"/>`,
	corechess.Bishop: `<circle cx="50" cy="16" r="6"/>
<path d="M50 22 Q70 40 58 62 L64 80 L36 80 L42 62 Q30 40 50 22 Z"/>`,
	corechess.Rook: `<path d="M28 20 L36 20 L36 28 L46 28 L46 20 L54 20 L54 28 L64 28 L64 20 L72 20 L72 36 L64 42 L66 80 L34 80 L36 42 L28 36 Z"/>`,
	corechess.Queen: `<path d="M24 30 L36 54 L38 22 L50 50 L62 22 L64 54 L76 30 L68 80 L32 80 Z"/>
<circle cx="24" cy="28" r="5"/><circle cx="38" cy="20" r="5"/><circle cx="62" cy="20" r="5"/><circle cx="76" cy="28" r="5"/>`,
	corechess.King: `<path d="M46 8 L54 8 L54 16 L62 16 L62 24 L54 24 L54 32 L46 32 L46 24 L38 24 L38 16 L46 16 Z"/>
<path d="M50 36 Q76 36 72 56 L66 80 L34 80 L28 56 Q24 36 50 36 Z"/>`,
}

func pieceSVG(piece corechess.Piece) (string, error) {
	shape, ok := pieceShapes[piece.Type]
	if !ok {
		return "", fmt.Errorf("no shape for %s", piece)
	}
	fill, stroke := "#f8f8f4", "#1d1d1d"
	if piece.Color == corechess.Black {
		fill, stroke = "#2b2b2f", "#e8e8e8"
	}
	shape = strings.ReplaceAll(shape, "{{stroke}}", stroke)
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">`+
			`<g fill="%s" stroke="%s" stroke-width="3" stroke-linejoin="round">%s%s</g></svg>`,
		fill, stroke, shape, pieceBase,
	), nil
}

type pieceCacheKey struct {
	piece corechess.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func renderPieceImage(piece corechess.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	svg, err := pieceSVG(piece)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}
