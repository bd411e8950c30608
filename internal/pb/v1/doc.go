// Package v1 is the gRPC contract of the stopwatch service.
//
// The service is declared in api/stopwatch/v1/stopwatch.proto. It only uses
// protobuf well-known types, so the grpc.ServiceDesc and the client and server
// stubs are written by hand: commands take google.protobuf.Empty and every
// response is a google.protobuf.Struct snapshot whose keys are the Field*
// constants.
package v1
