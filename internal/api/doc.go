// Package api defines the gRPC console service shared by jobserver and jobctl.
//
// Messages travel as protobuf well-known types (structpb.Struct,
// structpb.ListValue and wrapperspb.Int64Value) and are converted to and from
// the plain Go types in this package at the edges, so no generated code is
// needed.
package api
