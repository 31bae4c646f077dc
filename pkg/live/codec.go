package live

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrShortFrame is returned for frames missing their header.
	ErrShortFrame = errors.New("live: frame too short")
	// ErrFrameType is returned when a frame has an unexpected type.
	ErrFrameType = errors.New("live: unexpected frame type")
)

// maxPayload bounds a single frame payload.
const maxPayload = 16 << 20

// Encoder handles encoding of live protocol messages
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new encoder
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteUvarint writes an unsigned varint
func (e *Encoder) WriteUvarint(v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	_, err := e.w.Write(buf[:n])
	return err
}

// WriteString writes a length-prefixed string
func (e *Encoder) WriteString(s string) error {
	return e.WriteBlob([]byte(s))
}

// WriteBlob writes length-prefixed bytes
func (e *Encoder) WriteBlob(b []byte) error {
	if err := e.WriteUvarint(uint64(len(b))); err != nil {
		return err
	}
	_, err := e.w.Write(b)
	return err
}

// WriteBytes writes raw bytes
func (e *Encoder) WriteBytes(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

// Decoder handles decoding of live protocol messages
type Decoder struct {
	r io.Reader
}

// NewDecoder creates a new decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// ReadUvarint reads an unsigned varint
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d)
}

// ReadByte implements io.ByteReader
func (d *Decoder) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBlob reads length-prefixed bytes
func (d *Decoder) ReadBlob() ([]byte, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if length > maxPayload {
		return nil, fmt.Errorf("live: payload of %d bytes exceeds limit", length)
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadString reads a length-prefixed string
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBlob()
	return string(b), err
}

// Frame is one protocol frame: [type][uvarint seq][uvarint len][payload].
type Frame struct {
	Type    MessageType
	Seq     uint64
	Payload []byte
}

// EncodeFrame encodes f.
func EncodeFrame(f Frame) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	// Writes to a bytes.Buffer cannot fail.
	_ = enc.WriteBytes([]byte{byte(f.Type)})
	_ = enc.WriteUvarint(f.Seq)
	_ = enc.WriteBlob(f.Payload)
	return buf.Bytes()
}

// DecodeFrame decodes one frame occupying all of data.
func DecodeFrame(data []byte) (Frame, error) {
	if len(data) < 3 {
		return Frame{}, ErrShortFrame
	}
	r := bytes.NewReader(data)
	dec := NewDecoder(r)
	t, _ := dec.ReadByte()
	seq, err := dec.ReadUvarint()
	if err != nil {
		return Frame{}, fmt.Errorf("decode seq: %w", err)
	}
	payload, err := dec.ReadBlob()
	if err != nil {
		return Frame{}, fmt.Errorf("decode payload: %w", err)
	}
	if r.Len() != 0 {
		return Frame{}, fmt.Errorf("live: %d trailing bytes", r.Len())
	}
	return Frame{Type: MessageType(t), Seq: seq, Payload: payload}, nil
}

// EncodeCommand encodes cmd as a command frame.
func EncodeCommand(seq uint64, cmd Command) ([]byte, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode %s command: %w", cmd.Op, err)
	}
	return EncodeFrame(Frame{Type: FrameCommand, Seq: seq, Payload: payload}), nil
}

// DecodeCommand decodes a command frame.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	err := decodeJSON(data, FrameCommand, &cmd)
	return cmd, err
}

// EncodeMessage encodes msg as an event frame.
func EncodeMessage(seq uint64, msg Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.Kind, err)
	}
	return EncodeFrame(Frame{Type: FrameEvent, Seq: seq, Payload: payload}), nil
}

// DecodeMessage decodes an event frame.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	err := decodeJSON(data, FrameEvent, &msg)
	return msg, err
}

// EncodeControl encodes a control frame.
func EncodeControl(seq uint64, word string) []byte {
	return EncodeFrame(Frame{Type: FrameControl, Seq: seq, Payload: []byte(word)})
}

func decodeJSON(data []byte, want MessageType, v any) error {
	f, err := DecodeFrame(data)
	if err != nil {
		return err
	}
	if f.Type != want {
		return fmt.Errorf("%w: got %s, want %s", ErrFrameType, f.Type, want)
	}
	if err := json.Unmarshal(f.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", want, err)
	}
	return nil
}
