package boardv1

import (
	_ "embed"
	"fmt"
	"sync"

	// Registers buf/validate/validate.proto and the buf.validate extensions.
	_ "buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

//go:embed board.textproto
var schemaText []byte

// SchemaPath is the file path the schema is declared under
const SchemaPath = "board/v1/board.proto"

var loadSchema = sync.OnceValues(func() (protoreflect.FileDescriptor, error) {
	fdp := &descriptorpb.FileDescriptorProto{}
	if err := prototext.Unmarshal(schemaText, fdp); err != nil {
		return nil, fmt.Errorf("failed to parse board.v1 schema: %w", err)
	}

	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to build board.v1 schema: %w", err)
	}
	return fd, nil
})

// Schema returns the board.v1 file descriptor, validation rules included
func Schema() (protoreflect.FileDescriptor, error) {
	return loadSchema()
}

// SchemaSet returns the schema and its dependencies as a serialized
// FileDescriptorSet, dependencies first.
func SchemaSet() ([]byte, error) {
	fd, err := Schema()
	if err != nil {
		return nil, err
	}

	fds := &descriptorpb.FileDescriptorSet{}
	visited := make(map[string]bool)
	var addFile func(fd protoreflect.FileDescriptor)
	addFile = func(fd protoreflect.FileDescriptor) {
		if visited[fd.Path()] {
			return
		}
		visited[fd.Path()] = true

		imports := fd.Imports()
		for i := 0; i < imports.Len(); i++ {
			addFile(imports.Get(i).FileDescriptor)
		}
		fds.File = append(fds.File, protodesc.ToFileDescriptorProto(fd))
	}
	addFile(fd)

	data, err := proto.Marshal(fds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal descriptor set: %w", err)
	}
	return data, nil
}
