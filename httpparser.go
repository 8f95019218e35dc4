// Package httpparser incrementally reassembles raw bytes arriving from a
// network connection into complete HTTP/1.x messages. A message may span any
// number of reads, and a single read may carry any number of pipelined
// messages: RequestParser accepts buffers pushed by the caller without ever
// blocking, while ResponseParser owns a stream and blocks until a whole
// response is available. Both stay usable after malformed input, which makes
// them suitable for long-lived connections.
package httpparser
