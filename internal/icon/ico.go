package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DefaultSizes are the square sizes embedded in every converted icon.
var DefaultSizes = []int{16, 32, 48, 256}

type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type iconDirEntry struct {
	Width       uint8
	Height      uint8
	ColorCount  uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

const (
	iconDirSize      = 6
	iconDirEntrySize = 16
)

// EncodeICO writes img as an ICO container holding one PNG-compressed
// frame per size. Non-square images are centered on a transparent square.
func EncodeICO(w io.Writer, img image.Image, sizes []int) error {
	if len(sizes) == 0 {
		return errors.New("no icon sizes requested")
	}

	frames := make([][]byte, 0, len(sizes))
	for _, size := range sizes {
		if size <= 0 || size > 256 {
			return errors.Errorf("icon size %d out of range 1-256", size)
		}
		frame, err := encodeFrame(img, size)
		if err != nil {
			return errors.Wrapf(err, "encode %dx%d frame", size, size)
		}
		frames = append(frames, frame)
	}

	if err := binary.Write(w, binary.LittleEndian, iconDir{Type: 1, Count: uint16(len(frames))}); err != nil {
		return errors.Wrap(err, "write icon header")
	}

	offset := uint32(iconDirSize + iconDirEntrySize*len(frames))
	for i, frame := range frames {
		entry := iconDirEntry{
			// 0 encodes 256 in the one-byte dimension fields.
			Width:       uint8(sizes[i] % 256),
			Height:      uint8(sizes[i] % 256),
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(len(frame)),
			ImageOffset: offset,
		}
		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return errors.Wrap(err, "write icon directory")
		}
		offset += uint32(len(frame))
	}

	for _, frame := range frames {
		if _, err := w.Write(frame); err != nil {
			return errors.Wrap(err, "write icon frame")
		}
	}
	return nil
}

func encodeFrame(img image.Image, size int) ([]byte, error) {
	fitted := imaging.Fit(img, size, size, imaging.Lanczos)
	canvas := imaging.New(size, size, color.NRGBA{})
	canvas = imaging.PasteCenter(canvas, fitted)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
