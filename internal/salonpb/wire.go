// Package salonpb holds the protobuf messages of salon.v1.SalonService and the
// service descriptor used to register it on a grpc.Server.
package salonpb

import (
	"fmt"
	"time"

	"google.golang.org/grpc/encoding"
	protocodec "google.golang.org/grpc/encoding/proto"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Message is implemented by every type in this package.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

// codec serves Message values itself and hands anything else to the stock
// proto codec it replaces.
type codec struct {
	next encoding.Codec
}

func (c codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(Message); ok {
		return m.MarshalWire(), nil
	}
	if c.next == nil {
		return nil, fmt.Errorf("salonpb: cannot marshal %T", v)
	}
	return c.next.Marshal(v)
}

func (c codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(Message); ok {
		return m.UnmarshalWire(data)
	}
	if c.next == nil {
		return fmt.Errorf("salonpb: cannot unmarshal into %T", v)
	}
	return c.next.Unmarshal(data, v)
}

func (codec) Name() string { return protocodec.Name }

func init() {
	encoding.RegisterCodec(codec{next: encoding.GetCodec(protocodec.Name)})
}

type encoder struct {
	b []byte
}

func (e *encoder) str(n protowire.Number, s string) {
	if s == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, n, protowire.BytesType)
	e.b = protowire.AppendString(e.b, s)
}

func (e *encoder) strs(n protowire.Number, ss []string) {
	for _, s := range ss {
		e.b = protowire.AppendTag(e.b, n, protowire.BytesType)
		e.b = protowire.AppendString(e.b, s)
	}
}

func (e *encoder) boolean(n protowire.Number, v bool) {
	if !v {
		return
	}
	e.b = protowire.AppendTag(e.b, n, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, 1)
}

func (e *encoder) int(n protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, n, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, uint64(v))
}

func (e *encoder) msg(n protowire.Number, m Message) {
	e.b = protowire.AppendTag(e.b, n, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, m.MarshalWire())
}

// time writes a google.protobuf.Timestamp; the zero time is omitted.
func (e *encoder) time(n protowire.Number, t time.Time) {
	if t.IsZero() {
		return
	}
	ts := timestamppb.New(t)
	var inner []byte
	if ts.Seconds != 0 {
		inner = protowire.AppendTag(inner, 1, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(ts.Seconds))
	}
	if ts.Nanos != 0 {
		inner = protowire.AppendTag(inner, 2, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(ts.Nanos))
	}
	e.b = protowire.AppendTag(e.b, n, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, inner)
}

type field struct {
	num protowire.Number
	typ protowire.Type
	raw []byte
	x   uint64
}

func (f field) str() string {
	if f.typ != protowire.BytesType {
		return ""
	}
	return string(f.raw)
}

func (f field) boolean() bool { return f.typ == protowire.VarintType && f.x != 0 }

func (f field) int() int64 {
	if f.typ != protowire.VarintType {
		return 0
	}
	return int64(f.x)
}

func (f field) into(m Message) error {
	if f.typ != protowire.BytesType {
		return fmt.Errorf("salonpb: field %d: want length-delimited", f.num)
	}
	return m.UnmarshalWire(f.raw)
}

func (f field) time() (time.Time, error) {
	ts := &timestamppb.Timestamp{}
	err := walk(f.raw, func(g field) error {
		switch g.num {
		case 1:
			ts.Seconds = g.int()
		case 2:
			ts.Nanos = int32(g.int())
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return ts.AsTime(), nil
}

// walk calls fn for every field of b, skipping groups and fixed-width values.
func walk(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			f.raw, n = protowire.ConsumeBytes(b)
		case protowire.VarintType:
			f.x, n = protowire.ConsumeVarint(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if typ != protowire.BytesType && typ != protowire.VarintType {
			continue
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
