package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// HeaderSize is the fixed request header length:
// type u16 | version u16 | sequence u32 | payload length u32, big-endian.
const HeaderSize = 12

// MaxPayloadSize is the default cap on a single payload
const MaxPayloadSize = 64 * 1024

// ProtocolVersion is written by EncodePacket callers that do not care
const ProtocolVersion uint16 = 1

var (
	ErrShortHeader      = errors.New("packet shorter than header")
	ErrTruncatedPayload = errors.New("packet payload truncated")
	ErrTrailingBytes    = errors.New("packet has trailing bytes")
	ErrFrameTooLarge    = errors.New("packet payload exceeds limit")
	ErrMissingField     = errors.New("required payload field missing")
)

// Payload field numbers
const (
	fieldMonsterID protowire.Number = 1
	fieldX         protowire.Number = 2
	fieldY         protowire.Number = 3
)

// DecodeEnvelope parses a complete packet. When the header is intact but
// the payload is not, the returned envelope still carries the header fields.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	if len(raw) < HeaderSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(raw))
	}

	env := Envelope{
		Type:     PacketType(binary.BigEndian.Uint16(raw[0:2])),
		Version:  binary.BigEndian.Uint16(raw[2:4]),
		Sequence: binary.BigEndian.Uint32(raw[4:8]),
	}
	length := binary.BigEndian.Uint32(raw[8:12])
	body := raw[HeaderSize:]

	switch {
	case uint64(length) > uint64(len(body)):
		return env, fmt.Errorf("%w: want %d bytes, have %d", ErrTruncatedPayload, length, len(body))
	case uint64(length) < uint64(len(body)):
		return env, fmt.Errorf("%w: %d extra", ErrTrailingBytes, uint64(len(body))-uint64(length))
	}

	env.Payload = body
	return env, nil
}

// EncodePacket serializes an envelope with its header
func EncodePacket(env Envelope) []byte {
	out := make([]byte, HeaderSize, HeaderSize+len(env.Payload))
	binary.BigEndian.PutUint16(out[0:2], uint16(env.Type))
	binary.BigEndian.PutUint16(out[2:4], env.Version)
	binary.BigEndian.PutUint32(out[4:8], env.Sequence)
	binary.BigEndian.PutUint32(out[8:12], uint32(len(env.Payload)))
	return append(out, env.Payload...)
}

// ReadPacket reads one framed packet from r. A payload larger than
// maxPayload is drained from r and the header alone is returned together
// with ErrFrameTooLarge, so the stream stays aligned.
func ReadPacket(r io.Reader, maxPayload uint32) ([]byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(header[8:12])
	if length > maxPayload {
		if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
			return nil, err
		}
		return header, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, maxPayload)
	}

	packet := make([]byte, HeaderSize+int(length))
	copy(packet, header)
	if _, err := io.ReadFull(r, packet[HeaderSize:]); err != nil {
		return nil, err
	}
	return packet, nil
}

// EncodeSpawnMonster encodes a SPAWN_MONSTER_REQUEST payload
func EncodeSpawnMonster(p SpawnMonsterPayload) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldMonsterID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(p.MonsterID)))
	b = protowire.AppendTag(b, fieldX, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(p.X))
	b = protowire.AppendTag(b, fieldY, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(p.Y))
	return b
}

// EncodeMonsterDeath encodes a MONSTER_DEATH_NOTIFICATION payload
func EncodeMonsterDeath(p MonsterDeathPayload) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldMonsterID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(p.MonsterID)))
	return b
}

// DecodeSpawnMonster decodes a SPAWN_MONSTER_REQUEST payload.
// monsterId is required; missing coordinates default to zero.
func DecodeSpawnMonster(b []byte) (SpawnMonsterPayload, error) {
	var p SpawnMonsterPayload
	var haveID bool
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == fieldMonsterID && typ == protowire.VarintType:
			id, n := protowire.ConsumeVarint(v)
			p.MonsterID, haveID = int(int64(id)), true
			return n, nil
		case num == fieldX && typ == protowire.Fixed64Type:
			x, n := protowire.ConsumeFixed64(v)
			p.X = math.Float64frombits(x)
			return n, nil
		case num == fieldY && typ == protowire.Fixed64Type:
			y, n := protowire.ConsumeFixed64(v)
			p.Y = math.Float64frombits(y)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, v), nil
	})
	if err != nil {
		return SpawnMonsterPayload{}, fmt.Errorf("decode spawn payload: %w", err)
	}
	if !haveID {
		return SpawnMonsterPayload{}, fmt.Errorf("decode spawn payload: %w: monsterId", ErrMissingField)
	}
	return p, nil
}

// DecodeMonsterDeath decodes a MONSTER_DEATH_NOTIFICATION payload
func DecodeMonsterDeath(b []byte) (MonsterDeathPayload, error) {
	var p MonsterDeathPayload
	var haveID bool
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == fieldMonsterID && typ == protowire.VarintType {
			id, n := protowire.ConsumeVarint(v)
			p.MonsterID, haveID = int(int64(id)), true
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, v), nil
	})
	if err != nil {
		return MonsterDeathPayload{}, fmt.Errorf("decode death payload: %w", err)
	}
	if !haveID {
		return MonsterDeathPayload{}, fmt.Errorf("decode death payload: %w: monsterId", ErrMissingField)
	}
	return p, nil
}

// walkFields calls fn for every field in b. fn returns the number of value
// bytes it consumed, negative on a wire error.
func walkFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}
