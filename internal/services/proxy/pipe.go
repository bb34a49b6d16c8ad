package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const pipeBufferSize = 32 * 1024

// ErrClientGone means the caller went away before the upstream stream finished.
// It is an expected way for a stream to end, not a relay failure.
var ErrClientGone = errors.New("client disconnected")

// Result summarises a finished pipe
type Result struct {
	Bytes  int64
	Chunks int
}

// Pipe copies src to w as it arrives, flushing after every read so upstream chunk
// timing is preserved. Nothing is buffered beyond a single read. Headers must
// already be set; the status is written on the first chunk.
func Pipe(ctx context.Context, w http.ResponseWriter, src io.Reader) (Result, error) {
	var res Result
	rc := http.NewResponseController(w)
	buf := make([]byte, pipeBufferSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			written, err := w.Write(buf[:n])
			res.Bytes += int64(written)
			if err != nil {
				return res, fmt.Errorf("%w: %v", ErrClientGone, err)
			}
			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return res, fmt.Errorf("%w: %v", ErrClientGone, err)
			}
			res.Chunks++
		}

		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: %v", ErrClientGone, ctx.Err())
		}

		if errors.Is(readErr, io.EOF) {
			log.Trace().Int64("bytes", res.Bytes).Int("chunks", res.Chunks).Msg("Upstream stream complete")
			return res, nil
		}
		if readErr != nil {
			if errors.Is(readErr, context.Canceled) {
				return res, fmt.Errorf("%w: %v", ErrClientGone, readErr)
			}
			return res, fmt.Errorf("read upstream: %w", readErr)
		}
	}
}
