package rpcs

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
)

// ErrReadLimitExceeded is returned when a reader provides more
// bytes than allowed
var ErrReadLimitExceeded = errors.New("read limit exceeded")

// Encoder serializes responses
type Encoder interface {
	Encode(w io.Writer, v interface{}) error
}

// JsonEncoder is the Encoder for the JSON format
type JsonEncoder struct{}

// Encode is the implementation of Encoder for JsonEncoder
func (e JsonEncoder) Encode(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// ReadLimitProps defines how many bytes can be read
type ReadLimitProps struct {
	// Limit is the maximum number of bytes to read
	Limit int64

	// FailOnExceed makes reads fail with ErrReadLimitExceeded when
	// the source has more than Limit bytes. Otherwise the source
	// is silently truncated
	FailOnExceed bool
}

type limitReader struct {
	r     io.Reader
	props ReadLimitProps
	read  int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.read >= l.props.Limit {
		if !l.props.FailOnExceed {
			return 0, io.EOF
		}

		// one more byte tells whether the source is exhausted
		var extra [1]byte
		n, err := l.r.Read(extra[:])
		if n > 0 {
			return 0, ErrReadLimitExceeded
		}
		return 0, err
	}

	if remaining := l.props.Limit - l.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := l.r.Read(p)
	l.read += int64(n)
	return n, err
}

// JsonDecoder decodes request bodies in the JSON format
type JsonDecoder struct{}

// Decode decodes the JSON read from r into v
func (d JsonDecoder) Decode(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

// DecodeWithLimit decodes the JSON read from r into v, reading
// no more than the limit
func (d JsonDecoder) DecodeWithLimit(r io.Reader, v interface{}, props ReadLimitProps) error {
	return d.Decode(&limitReader{r: r, props: props}, v)
}

func isJsonContentType(value string) bool {
	mediaType, _, err := mime.ParseMediaType(value)
	return err == nil && mediaType == "application/json"
}
