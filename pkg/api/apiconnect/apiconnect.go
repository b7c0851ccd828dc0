// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// withHandlerCodec puts the JSON codec ahead of caller options.
func withHandlerCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
