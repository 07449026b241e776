// Package npy reads and writes 2-D float matrices in the NumPy .npy format
// (version 1.0). Only C-order arrays of dtype <f4 or <f8 are supported, which
// covers matrices produced by sentence-embedding pipelines.
package npy

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// magic is the NPY file signature followed by version 1.0.
var magic = []byte("\x93NUMPY\x01\x00")

// Matrix is a dense row-major float32 matrix.
type Matrix struct {
	Rows int
	Cols int
	Data []float32 // len == Rows*Cols
}

// Row returns the i-th row as a slice into the underlying data.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

var (
	descrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']+)'`)
	fortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadFile loads a matrix from an .npy file.
func ReadFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embeddings file: %w", err)
	}
	defer f.Close()

	m, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}

// Read parses an NPY v1.0 stream into a Matrix.
func Read(r io.Reader) (*Matrix, error) {
	head := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("read npy preamble: %w", err)
	}
	if string(head[:6]) != string(magic[:6]) {
		return nil, fmt.Errorf("not an npy file (bad magic)")
	}
	if head[6] != 1 {
		return nil, fmt.Errorf("unsupported npy version %d.%d", head[6], head[7])
	}

	headerLen := binary.LittleEndian.Uint16(head[8:])
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}

	descr, rows, cols, err := parseHeader(string(header))
	if err != nil {
		return nil, err
	}

	n := rows * cols
	data := make([]float32, n)

	switch descr {
	case "<f4":
		raw := make([]byte, n*4)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("read npy payload: %w", err)
		}
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
	case "<f8":
		raw := make([]byte, n*8)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("read npy payload: %w", err)
		}
		for i := range data {
			data[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:])))
		}
	default:
		return nil, fmt.Errorf("unsupported npy dtype %q (want <f4 or <f8)", descr)
	}

	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// parseHeader extracts dtype and shape from the Python dict literal header.
func parseHeader(header string) (descr string, rows, cols int, err error) {
	m := descrRe.FindStringSubmatch(header)
	if m == nil {
		return "", 0, 0, fmt.Errorf("npy header missing descr: %q", header)
	}
	descr = m[1]

	if f := fortranRe.FindStringSubmatch(header); f == nil || f[1] != "False" {
		return "", 0, 0, fmt.Errorf("fortran-order npy arrays are not supported")
	}

	s := shapeRe.FindStringSubmatch(header)
	if s == nil {
		return "", 0, 0, fmt.Errorf("npy header missing shape: %q", header)
	}

	dims := make([]int, 0, 2)
	for _, part := range strings.Split(s[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, convErr := strconv.Atoi(part)
		if convErr != nil || d < 0 {
			return "", 0, 0, fmt.Errorf("invalid npy shape dimension %q", part)
		}
		dims = append(dims, d)
	}

	switch len(dims) {
	case 1:
		// A single vector saved without reshaping; treat as one row.
		return descr, 1, dims[0], nil
	case 2:
		return descr, dims[0], dims[1], nil
	default:
		return "", 0, 0, fmt.Errorf("expected a 1-D or 2-D npy array, got %d dimensions", len(dims))
	}
}

// WriteFile saves a matrix as an .npy file (dtype <f4, C order).
func WriteFile(path string, m *Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create embeddings file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Write(w, m); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// Write streams a matrix in NPY v1.0 format.
func Write(w io.Writer, m *Matrix) error {
	if len(m.Data) != m.Rows*m.Cols {
		return fmt.Errorf("matrix data length %d does not match shape (%d, %d)", len(m.Data), m.Rows, m.Cols)
	}

	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", m.Rows, m.Cols)
	// Pad so the payload starts on a 64-byte boundary, terminated by newline.
	total := len(magic) + 2 + len(header) + 1
	if pad := total % 64; pad != 0 {
		header += strings.Repeat(" ", 64-pad)
	}
	header += "\n"

	if _, err := w.Write(magic); err != nil {
		return fmt.Errorf("write npy magic: %w", err)
	}
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(header)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write npy header length: %w", err)
	}
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("write npy header: %w", err)
	}

	buf := make([]byte, len(m.Data)*4)
	for i, v := range m.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write npy payload: %w", err)
	}
	return nil
}
