package codec

import (
	"encoding/binary"
	"io"
)

const orientationTag = 0x0112

// ReadOrientation extracts the EXIF orientation tag (1-8) from a JPEG
// stream. Returns 1 (normal) for non-JPEG input or when no tag is
// present. Only the orientation tag is read; the full EXIF tree is
// never parsed.
func ReadOrientation(r io.ReadSeeker) int {
	var soi [2]byte
	if _, err := io.ReadFull(r, soi[:]); err != nil {
		return 1
	}
	if soi[0] != 0xFF || soi[1] != 0xD8 {
		return 1 // not a JPEG
	}

	for {
		var marker [2]byte
		if _, err := io.ReadFull(r, marker[:]); err != nil {
			return 1
		}
		if marker[0] != 0xFF {
			return 1
		}
		for marker[1] == 0xFF {
			if _, err := io.ReadFull(r, marker[1:]); err != nil {
				return 1
			}
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return 1
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf[:])) - 2
		if segLen < 0 {
			return 1
		}

		switch marker[1] {
		case 0xE1: // APP1 holds EXIF
			return orientationFromAPP1(r, segLen)
		case 0xDA: // SOS: no metadata past this point
			return 1
		}

		if _, err := r.Seek(int64(segLen), io.SeekCurrent); err != nil {
			return 1
		}
	}
}

func orientationFromAPP1(r io.Reader, segLen int) int {
	if segLen < 14 {
		return 1
	}
	data := make([]byte, segLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return 1
	}
	if string(data[:4]) != "Exif" || data[4] != 0 || data[5] != 0 {
		return 1
	}

	tiff := data[6:]
	if len(tiff) < 8 {
		return 1
	}

	var bo binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return 1
	}
	if bo.Uint16(tiff[2:4]) != 42 {
		return 1
	}

	off := int(bo.Uint32(tiff[4:8]))
	if off < 8 || off+2 > len(tiff) {
		return 1
	}
	entries := int(bo.Uint16(tiff[off : off+2]))
	off += 2

	for i := 0; i < entries; i++ {
		e := off + i*12
		if e+12 > len(tiff) {
			break
		}
		if bo.Uint16(tiff[e:e+2]) != orientationTag {
			continue
		}
		if bo.Uint16(tiff[e+2:e+4]) != 3 { // SHORT
			return 1
		}
		v := int(bo.Uint16(tiff[e+8 : e+10]))
		if v >= 1 && v <= 8 {
			return v
		}
		return 1
	}
	return 1
}
