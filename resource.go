package feedcache

// Resource is a decoded, immutable object ready for display.
//
// Resources report their in-memory size so the bounded cache can account
// for them. Once produced by a Decoder a Resource is never mutated.
type Resource interface {
	// SizeBytes returns the in-memory size of the resource in bytes.
	SizeBytes() int64
}

// Bytes is a Resource backed by a raw byte slice.
type Bytes []byte

// SizeBytes returns the slice length.
func (b Bytes) SizeBytes() int64 {
	return int64(len(b))
}

// Decoder turns fetched bytes into a displayable Resource.
//
// Decode failures are permanent for that fetch attempt: nothing is cached
// and the record's observable slot stays empty.
type Decoder interface {
	Decode(data []byte) (Resource, error)
}

// DecodeFunc adapts a function to the Decoder interface.
type DecodeFunc func(data []byte) (Resource, error)

// Decode calls f.
func (f DecodeFunc) Decode(data []byte) (Resource, error) {
	return f(data)
}

// RawDecoder returns a Decoder that passes fetched bytes through
// unchanged. It is the default decoder of a Coordinator.
func RawDecoder() Decoder {
	return DecodeFunc(func(data []byte) (Resource, error) {
		return Bytes(data), nil
	})
}
