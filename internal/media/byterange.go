package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange  = errors.New("invalid range format")
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// ByteRange is an inclusive byte span of a source file.
type ByteRange struct {
	First int64
	Last  int64
}

func (b ByteRange) Length() int64 {
	return b.Last - b.First + 1
}

// ContentRange formats b for the Content-Range header of a size-byte file.
func (b ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", b.First, b.Last, size)
}

// ParseByteRange reads the first span of a "bytes=" Range header. An empty
// header means the whole file and yields nil. Spans reaching past the end
// are clamped; spans starting past it are unsatisfiable.
func ParseByteRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}
	set, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, ErrInvalidRange
	}
	if first, _, multi := strings.Cut(set, ","); multi {
		set = strings.TrimSpace(first)
	}
	from, to, ok := strings.Cut(set, "-")
	if !ok {
		return nil, ErrInvalidRange
	}

	var br ByteRange
	switch {
	case from == "":
		// suffix form: the last n bytes
		n, err := strconv.ParseInt(to, 10, 64)
		if err != nil || n <= 0 {
			return nil, ErrInvalidRange
		}
		br = ByteRange{First: max(size-n, 0), Last: size - 1}
	default:
		first, err := strconv.ParseInt(from, 10, 64)
		if err != nil || first < 0 {
			return nil, ErrInvalidRange
		}
		br = ByteRange{First: first, Last: size - 1}
		if to != "" {
			if br.Last, err = strconv.ParseInt(to, 10, 64); err != nil {
				return nil, ErrInvalidRange
			}
		}
	}

	if br.First > br.Last || br.First >= size {
		return nil, ErrUnsatisfiable
	}
	br.Last = min(br.Last, size-1)
	return &br, nil
}
