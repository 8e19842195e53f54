package arbiter

import (
	"bytes"
	"sync"
)

// recordPool reuses the buffers that hold a received object between the
// shape pass and the materialize pass. Objects are small: the count is two
// bytes and every advanced payload is at most 255 bytes.
var recordPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

func getRecordBuffer() *bytes.Buffer {
	buf := recordPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putRecordBuffer(buf *bytes.Buffer) {
	// Don't keep buffers that grew for an unusually large object.
	if buf.Cap() > 64*1024 {
		return
	}
	recordPool.Put(buf)
}
