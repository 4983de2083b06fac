package flat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Snapshot wire format, all integers little-endian:
//
//	magic      [8]byte  "ADXVEC01"
//	similarity uint8
//	dims       uint32
//	count      uint32
//	model      uint16 length + bytes
//	crc        uint32   CRC-32 (IEEE) of the payload
//	payload    count records, each:
//	  id         uint16 length + bytes
//	  documentID uint16 length + bytes
//	  page       uint32
//	  ordinal    uint32
//	  text       uint32 length + bytes
//	  vector     dims × float32
//
// Records are encoded in insertion order, so rebuilding from the same
// document set in the same order reproduces the snapshot byte for byte.
var snapshotMagic = [8]byte{'A', 'D', 'X', 'V', 'E', 'C', '0', '1'}

// encode serialises the index. Caller holds at least a read lock.
func (idx *Index) encode() []byte {
	var payload bytes.Buffer
	for i := range idx.records {
		r := &idx.records[i]
		writeString16(&payload, r.passage.ID)
		writeString16(&payload, r.passage.DocumentID)
		writeUint32(&payload, uint32(r.passage.Page))
		writeUint32(&payload, uint32(r.passage.Ordinal))
		writeString32(&payload, r.passage.Text)
		for _, v := range r.vector {
			writeUint32(&payload, math.Float32bits(v))
		}
	}

	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(byte(idx.cfg.Similarity))
	writeUint32(&buf, uint32(idx.dims))
	writeUint32(&buf, uint32(len(idx.records)))
	writeString16(&buf, idx.cfg.ModelName)
	writeUint32(&buf, crc32.ChecksumIEEE(payload.Bytes()))
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

// decode parses a snapshot, validating magic, checksum, similarity
// kind, model version, and record shapes. Any failure is
// domain.ErrMalformedIndex except a model or similarity mismatch,
// which also maps there: serving vectors from a different embedding
// function would silently corrupt similarity semantics.
func decode(data []byte, similarity Similarity, modelName string) (int, []record, error) {
	r := bytes.NewReader(data)

	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != snapshotMagic {
		return 0, nil, fmt.Errorf("%w: bad magic", domain.ErrMalformedIndex)
	}

	simByte, err := r.ReadByte()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: truncated header", domain.ErrMalformedIndex)
	}
	if Similarity(simByte) != similarity {
		return 0, nil, fmt.Errorf("%w: snapshot uses %s similarity, index configured for %s",
			domain.ErrMalformedIndex, Similarity(simByte), similarity)
	}

	dims, err := readUint32(r)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: truncated header", domain.ErrMalformedIndex)
	}
	count, err := readUint32(r)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: truncated header", domain.ErrMalformedIndex)
	}

	model, err := readString16(r)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: truncated header", domain.ErrMalformedIndex)
	}
	if modelName != "" && model != modelName {
		return 0, nil, fmt.Errorf("%w: snapshot embedded with %q, index configured for %q; re-index required",
			domain.ErrMalformedIndex, model, modelName)
	}

	sum, err := readUint32(r)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: truncated header", domain.ErrMalformedIndex)
	}

	payload := data[len(data)-r.Len():]
	if crc32.ChecksumIEEE(payload) != sum {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", domain.ErrMalformedIndex)
	}

	// A record is at least 16 bytes of lengths and fields plus its
	// vector, so a count that cannot fit in the payload is corrupt.
	// Checking before allocating keeps a forged header from forcing a
	// huge preallocation.
	minRecord := int64(16) + int64(dims)*4
	if int64(count)*minRecord > int64(r.Len()) {
		return 0, nil, fmt.Errorf("%w: record count %d exceeds payload", domain.ErrMalformedIndex, count)
	}

	records := make([]record, 0, count)
	seen := make(map[string]bool, count)
	for i := uint32(0); i < count; i++ {
		rec, err := decodeRecord(r, int(dims))
		if err != nil {
			return 0, nil, err
		}
		if seen[rec.passage.ID] {
			return 0, nil, fmt.Errorf("%w: duplicate passage %s", domain.ErrMalformedIndex, rec.passage.ID)
		}
		seen[rec.passage.ID] = true
		records = append(records, rec)
	}

	if r.Len() != 0 {
		return 0, nil, fmt.Errorf("%w: %d trailing bytes", domain.ErrMalformedIndex, r.Len())
	}
	return int(dims), records, nil
}

// decodeRecord parses one passage record with its vector.
func decodeRecord(r *bytes.Reader, dims int) (record, error) {
	truncated := func() (record, error) {
		return record{}, fmt.Errorf("%w: truncated record", domain.ErrMalformedIndex)
	}

	id, err := readString16(r)
	if err != nil {
		return truncated()
	}
	docID, err := readString16(r)
	if err != nil {
		return truncated()
	}
	page, err := readUint32(r)
	if err != nil {
		return truncated()
	}
	ordinal, err := readUint32(r)
	if err != nil {
		return truncated()
	}
	text, err := readString32(r)
	if err != nil {
		return truncated()
	}

	vector := make([]float32, dims)
	for i := 0; i < dims; i++ {
		bits, err := readUint32(r)
		if err != nil {
			return truncated()
		}
		vector[i] = math.Float32frombits(bits)
	}

	return record{
		passage: domain.Passage{
			ID:         id,
			DocumentID: docID,
			Page:       int(page),
			Ordinal:    int(ordinal),
			Text:       text,
		},
		vector: vector,
	}, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString16(buf *bytes.Buffer, s string) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(len(s)))
	buf.Write(b[:])
	buf.WriteString(s)
}

func writeString32(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readString16(r *bytes.Reader) (string, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint16(b[:])
	s := make([]byte, n)
	if _, err := io.ReadFull(r, s); err != nil {
		return "", err
	}
	return string(s), nil
}

func readString32(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	if int(n) > r.Len() {
		return "", fmt.Errorf("string length %d exceeds remaining %d", n, r.Len())
	}
	s := make([]byte, n)
	if _, err := io.ReadFull(r, s); err != nil {
		return "", err
	}
	return string(s), nil
}
