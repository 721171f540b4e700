package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// FormatVersion is the on-stream format version written by Save. Readers
// reject newer versions, so the payload layout can evolve.
const FormatVersion = 1

// header precedes every persisted model payload. The exact layout is
// implementation-defined; only lossless round-tripping is contractual.
type header struct {
	Format   uint32
	Kind     string
	Metadata string
}

// Save serializes a finalized model payload to w: a header carrying the
// model kind and free-text metadata, followed by the gob-encoded payload.
func Save(w io.Writer, kind, metadata string, payload any) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(header{Format: FormatVersion, Kind: kind, Metadata: metadata}); err != nil {
		return errors.NewModelError("Save", "failed to encode header", err)
	}
	if err := enc.Encode(payload); err != nil {
		return errors.NewModelError("Save", "failed to encode model", err)
	}
	return nil
}

// Load is the inverse of Save. It decodes a model of the given kind from r
// into payload and returns the stored metadata. A malformed or truncated
// stream, or a stream holding a different model kind, yields an error and
// never a partially populated payload visible to the caller.
func Load(r io.Reader, kind string, payload any) (string, error) {
	dec := gob.NewDecoder(r)
	var h header
	if err := dec.Decode(&h); err != nil {
		return "", errors.NewModelError("Load", "failed to decode header", wrapEOF(err))
	}
	if h.Format > FormatVersion {
		return "", errors.NewModelError("Load", "unsupported format version", errors.Newf("format %d", h.Format))
	}
	if h.Kind != kind {
		return "", errors.NewModelError("Load", "stream holds "+h.Kind+", want "+kind, errors.ErrModelKind)
	}
	if err := dec.Decode(payload); err != nil {
		return "", errors.NewModelError("Load", "failed to decode model", wrapEOF(err))
	}
	return h.Metadata, nil
}

// SaveFile writes a model payload to a file, creating or truncating it.
// A failure to flush the file on close is reported like any other write
// failure.
func SaveFile(path, kind, metadata string, payload any) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewModelError("SaveFile", "failed to create file", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.NewModelError("SaveFile", "failed to close file", cerr)
		}
	}()
	return Save(file, kind, metadata, payload)
}

// LoadFile reads a model payload from a file.
func LoadFile(path, kind string, payload any) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.NewModelError("LoadFile", "failed to open file", err)
	}
	defer file.Close()
	return Load(file, kind, payload)
}

func wrapEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Wrap(errors.ErrTruncatedModel, err.Error())
	}
	return err
}
