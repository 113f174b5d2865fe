package thumbnail

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Transformer center-crops and resizes images to a fixed square and encodes
// the result as PNG whatever the input format was.
type Transformer struct {
	size int
}

func NewTransformer(size int) *Transformer {
	return &Transformer{size: size}
}

func (t *Transformer) Thumbnail(data []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := t.writeThumbnail(&out, data); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (t *Transformer) writeThumbnail(w io.Writer, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return newError(KindDecode, "decode image", err)
	}

	thumb := imaging.Fill(img, t.size, t.size, imaging.Center, imaging.Lanczos)

	if err := imaging.Encode(w, thumb, imaging.PNG); err != nil {
		return newError(KindEncode, fmt.Sprintf("encode %dx%d thumbnail", t.size, t.size), err)
	}
	return nil
}
