// Package validator checks board.v1 requests against the buf.validate rules
// declared in the API schema.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"

	"buf.build/go/protovalidate"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ErrUnknownProcedure is returned for a procedure the schema does not declare
var ErrUnknownProcedure = errors.New("procedure not declared in schema")

// SchemaValidator validates request messages by procedure
type SchemaValidator struct {
	validator protovalidate.Validator
	requests  map[string]protoreflect.MessageDescriptor
}

// NewSchemaValidator builds a validator from a serialized FileDescriptorSet.
// Every service method of schemaPath becomes a validated procedure.
func NewSchemaValidator(descriptorBytes []byte, schemaPath string) (*SchemaValidator, error) {
	// 1. Unmarshal FileDescriptorSet
	fds := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(descriptorBytes, fds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal descriptor set: %w", err)
	}

	// 2. Create Files registry
	files, err := protodesc.NewFiles(fds)
	if err != nil {
		return nil, fmt.Errorf("failed to create files registry: %w", err)
	}
	fd, err := files.FindFileByPath(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("schema %s not in descriptor set: %w", schemaPath, err)
	}

	// 3. Map procedures to their request descriptors
	requests := make(map[string]protoreflect.MessageDescriptor)
	services := fd.Services()
	for i := 0; i < services.Len(); i++ {
		svc := services.Get(i)
		methods := svc.Methods()
		for j := 0; j < methods.Len(); j++ {
			m := methods.Get(j)
			requests[fmt.Sprintf("/%s/%s", svc.FullName(), m.Name())] = m.Input()
		}
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("no service methods found in %s", schemaPath)
	}

	var descriptors []protoreflect.MessageDescriptor
	messages := fd.Messages()
	for i := 0; i < messages.Len(); i++ {
		descriptors = append(descriptors, messages.Get(i))
	}

	// 4. Create protovalidate.Validator
	validator, err := protovalidate.New(
		protovalidate.WithMessageDescriptors(descriptors...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &SchemaValidator{validator: validator, requests: requests}, nil
}

// Validate checks msg as the request of procedure. Rule violations are
// returned as *protovalidate.ValidationError.
func (s *SchemaValidator) Validate(procedure string, msg any) error {
	md, ok := s.requests[procedure]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProcedure, procedure)
	}

	req, err := toMessage(md, msg)
	if err != nil {
		return err
	}
	return s.validator.Validate(req)
}

// Procedures returns the validated procedure paths
func (s *SchemaValidator) Procedures() []string {
	procedures := make([]string, 0, len(s.requests))
	for p := range s.requests {
		procedures = append(procedures, p)
	}
	return procedures
}

// toMessage carries a wire struct into a dynamic message of md through
// its JSON form. Fields the schema does not declare are an error.
func toMessage(md protoreflect.MessageDescriptor, msg any) (proto.Message, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", msg, err)
	}

	dyn := dynamicpb.NewMessage(md)
	if err := protojson.Unmarshal(data, dyn); err != nil {
		return nil, fmt.Errorf("%T does not match %s: %w", msg, md.FullName(), err)
	}
	return dyn, nil
}
