package live

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/recera/circles/pkg/renderer/html"
	"github.com/recera/circles/pkg/vango/vdom"
)

// maxStringLen bounds strings read from the wire
const maxStringLen = 1 << 20

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
	if err := e.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

// WriteBytes writes raw bytes
func (e *Encoder) WriteBytes(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

// Decoder handles decoding of live protocol messages
type Decoder struct {
	r   io.Reader
	buf []byte
}

// NewDecoder creates a new decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 1024),
	}
}

// ReadUvarint reads an unsigned varint
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d)
}

// ReadByte implements io.ByteReader
func (d *Decoder) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(d.r, b[:])
	return b[0], err
}

// ReadString reads a length-prefixed string
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > maxStringLen {
		return "", fmt.Errorf("string of %d bytes exceeds limit", length)
	}

	if length > uint64(len(d.buf)) {
		d.buf = make([]byte, length)
	}

	n, err := io.ReadFull(d.r, d.buf[:length])
	if err != nil {
		return "", err
	}

	return string(d.buf[:n]), nil
}

// EncodeControl encodes a control frame with optional string arguments
func EncodeControl(msg string, args ...string) []byte {
	var buf bytes.Buffer
	encoder := NewEncoder(&buf)

	encoder.WriteBytes([]byte{byte(FrameControl)})
	encoder.WriteString(msg)
	for _, arg := range args {
		encoder.WriteString(arg)
	}
	return buf.Bytes()
}

// DecodeControl decodes the message name of a control frame and returns a
// decoder positioned at its arguments
func DecodeControl(data []byte) (string, *Decoder, error) {
	if len(data) == 0 || data[0] != byte(FrameControl) {
		return "", nil, errors.New("not a control frame")
	}
	decoder := NewDecoder(bytes.NewReader(data[1:]))
	msg, err := decoder.ReadString()
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode control message: %w", err)
	}
	return msg, decoder, nil
}

// EncodePatches encodes patches to binary format.
// Inserted subtrees are sent as markup.
func EncodePatches(patches []vdom.Patch) ([]byte, error) {
	var buf bytes.Buffer
	encoder := NewEncoder(&buf)

	// Write frame type
	encoder.WriteBytes([]byte{byte(FramePatches)})

	// Write patch count
	encoder.WriteUvarint(uint64(len(patches)))

	// Write each patch
	for _, patch := range patches {
		// Write opcode
		encoder.WriteBytes([]byte{byte(patch.Op)})

		switch patch.Op {
		case vdom.OpReplaceText:
			encoder.WriteUvarint(uint64(patch.NodeID))
			encoder.WriteString(patch.Value)

		case vdom.OpSetAttribute, vdom.OpSetStyle:
			encoder.WriteUvarint(uint64(patch.NodeID))
			encoder.WriteString(patch.Key)
			encoder.WriteString(patch.Value)

		case vdom.OpRemoveNode:
			encoder.WriteUvarint(uint64(patch.NodeID))

		case vdom.OpInsertNode:
			encoder.WriteUvarint(uint64(patch.NodeID))
			encoder.WriteUvarint(uint64(patch.ParentID))
			markup := patch.Value
			if patch.Node != nil {
				var err error
				if markup, err = html.RenderToString(patch.Node); err != nil {
					return nil, fmt.Errorf("failed to render inserted node %d: %w", patch.NodeID, err)
				}
			}
			encoder.WriteString(markup)

		default:
			return nil, fmt.Errorf("unknown patch op %d", patch.Op)
		}
	}

	return buf.Bytes(), nil
}

// DecodePatches decodes a patch frame. Inserted nodes come back as markup in
// Value with Node left nil.
func DecodePatches(data []byte) ([]vdom.Patch, error) {
	if len(data) == 0 || data[0] != byte(FramePatches) {
		return nil, errors.New("not a patch frame")
	}
	decoder := NewDecoder(bytes.NewReader(data[1:]))

	count, err := decoder.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("failed to decode patch count: %w", err)
	}
	if count > uint64(len(data)) {
		return nil, fmt.Errorf("patch count %d exceeds frame size", count)
	}

	patches := make([]vdom.Patch, 0, count)
	for i := uint64(0); i < count; i++ {
		op, err := decoder.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		p := vdom.Patch{Op: vdom.PatchOp(op)}

		id, err := decoder.ReadUvarint()
		if err != nil {
			return nil, fmt.Errorf("patch %d: node id: %w", i, err)
		}
		p.NodeID = uint32(id)

		switch p.Op {
		case vdom.OpReplaceText:
			p.Value, err = decoder.ReadString()

		case vdom.OpSetAttribute, vdom.OpSetStyle:
			if p.Key, err = decoder.ReadString(); err == nil {
				p.Value, err = decoder.ReadString()
			}

		case vdom.OpRemoveNode:

		case vdom.OpInsertNode:
			var parent uint64
			if parent, err = decoder.ReadUvarint(); err == nil {
				p.ParentID = uint32(parent)
				p.Value, err = decoder.ReadString()
			}

		default:
			return nil, fmt.Errorf("patch %d: unknown op %d", i, op)
		}
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		patches = append(patches, p)
	}

	return patches, nil
}
