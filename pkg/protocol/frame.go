package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	// HeaderSize is the fixed width of the length header in bytes
	HeaderSize = 64

	// MaxPayloadSize is the maximum allowed payload size (64 KiB)
	MaxPayloadSize = 64 * 1024
)

var (
	ErrFrameTooLarge = errors.New("frame exceeds maximum size (64 KiB)")
	ErrBadHeader     = errors.New("invalid length header")
)

// EncodeFrame writes one framed message to the writer.
// Format: [Length (64 bytes, ASCII decimal, space-padded)][Payload (N bytes UTF-8)]
func EncodeFrame(w io.Writer, msg string) error {
	payload := []byte(msg)
	if len(payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}

	header := make([]byte, HeaderSize)
	n := copy(header, strconv.Itoa(len(payload)))
	for i := n; i < HeaderSize; i++ {
		header[i] = ' '
	}

	if _, err := w.Write(header); err != nil {
		return err
	}

	if len(payload) > 0 {
		_, err := w.Write(payload)
		return err
	}

	return nil
}

// DecodeFrame reads one framed message from the reader.
// A missing or blank header means the peer disconnected; io.EOF is
// returned and the caller must tear down the connection.
func DecodeFrame(r io.Reader) (string, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return "", io.EOF
		}
		return "", err
	}

	trimmed := bytes.TrimRight(header, " ")
	if len(trimmed) == 0 {
		// Blank header: the peer is gone
		return "", io.EOF
	}

	length, err := strconv.Atoi(string(trimmed))
	if err != nil || length < 0 {
		return "", fmt.Errorf("%w: %q", ErrBadHeader, string(trimmed))
	}

	if length == 0 {
		return "", io.EOF
	}

	if length > MaxPayloadSize {
		return "", ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return "", err
	}

	return string(payload), nil
}
