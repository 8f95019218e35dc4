package httpparser

import "time"

type (
	NET struct {
		// ReadBufferSize is the size of the fixed buffer connection reads go
		// through. A single read never yields more bytes than that
		ReadBufferSize int
		// ReadTimeout bounds a single blocking read on the connection
		ReadTimeout time.Duration
	}

	Headers struct {
		// Prealloc is the number of header entries allocated upfront per message
		Prealloc int
		// CookiesPrealloc is the number of Set-Cookie seats allocated once a
		// response turns out to carry cookies
		CookiesPrealloc int
	}

	Body struct {
		// Prealloc is the initial capacity of the body buffer, allocated lazily
		// on the first body byte
		Prealloc int
	}
)

type Config struct {
	NET     NET
	Headers Headers
	Body    Body
}

func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize: 2 * 1024,
			ReadTimeout:    90 * time.Second,
		},
		Headers: Headers{
			Prealloc:        10,
			CookiesPrealloc: 5,
		},
		Body: Body{
			Prealloc: 1024,
		},
	}
}
