// The config file schema is a protobuf message whose leaf field names are the command line flag names they set.
// It is declared here as a descriptor, so the file can be decoded into a dynamic message without generated code.

package config

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const schemaPackage = "dlist.config"

// configDescriptor describes the root message of a config file.
var configDescriptor = mustBuildConfigDescriptor()

func scalarField(name string, number int32, kind descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}
}

func messageField(name string, number int32, messageName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String("." + schemaPackage + "." + messageName),
	}
}

// configFileProto mirrors the following proto2 file:
//
//	message Config  { optional Logging logging = 1; optional Server server = 2; optional Store store = 3; }
//	message Logging { optional string log_level = 1; optional string log_handler_type = 2; }
//	message Server  { optional string address = 1; optional string metrics_address = 2; }
//	message Store   { optional int32 shard_count = 1; optional int32 max_list_length = 2; }
var configFileProto = &descriptorpb.FileDescriptorProto{
	Name:    proto.String("dlist/config.proto"),
	Package: proto.String(schemaPackage),
	Syntax:  proto.String("proto2"),
	MessageType: []*descriptorpb.DescriptorProto{
		{
			Name: proto.String("Config"),
			Field: []*descriptorpb.FieldDescriptorProto{
				messageField("logging", 1, "Logging"),
				messageField("server", 2, "Server"),
				messageField("store", 3, "Store"),
			},
		},
		{
			Name: proto.String("Logging"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("log_level", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("log_handler_type", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			},
		},
		{
			Name: proto.String("Server"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("address", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("metrics_address", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			},
		},
		{
			Name: proto.String("Store"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("shard_count", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalarField("max_list_length", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			},
		},
	},
}

func mustBuildConfigDescriptor() protoreflect.MessageDescriptor {
	file, err := protodesc.NewFile(configFileProto, new(protoregistry.Files))
	if err != nil {
		panic("invalid config schema: " + err.Error())
	}
	return file.Messages().ByName("Config")
}
