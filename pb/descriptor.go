// Package pb holds the flock.v1 protobuf messages.
// The file descriptor is assembled at init from descriptorpb, mirroring flock.proto,
// and messages are dynamic: no generated code is needed.
package pb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const Package = "flock.v1"

// Message names of the flock.v1 package.
const (
	Vector3Name         protoreflect.Name = "Vector3"
	ColorName           protoreflect.Name = "Color"
	BoidName            protoreflect.Name = "Boid"
	PredatorName        protoreflect.Name = "Predator"
	ObstacleName        protoreflect.Name = "Obstacle"
	BehaviorSettingName protoreflect.Name = "BehaviorSetting"
	WorldSnapshotName   protoreflect.Name = "WorldSnapshot"
	TickName            protoreflect.Name = "Tick"
	GetSnapshotName     protoreflect.Name = "GetSnapshot"
	CommandName         protoreflect.Name = "Command"
)

// File is the flock.v1 file descriptor.
var File protoreflect.FileDescriptor

var (
	tDouble = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	tString = descriptorpb.FieldDescriptorProto_TYPE_STRING
	tBool   = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	tUint64 = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	tInt64  = descriptorpb.FieldDescriptorProto_TYPE_INT64
	tInt32  = descriptorpb.FieldDescriptorProto_TYPE_INT32
)

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func message(name string, number int32, msg protoreflect.Name) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String("." + Package + "." + string(msg)),
	}
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func messageType(name protoreflect.Name, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(string(name)), Field: fields}
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("flock/v1/flock.proto"),
		Package: proto.String(Package),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			messageType(Vector3Name,
				scalar("x", 1, tDouble),
				scalar("y", 2, tDouble),
				scalar("z", 3, tDouble)),
			messageType(ColorName,
				scalar("r", 1, tDouble),
				scalar("g", 2, tDouble),
				scalar("b", 3, tDouble)),
			messageType(BoidName,
				scalar("id", 1, tString),
				message("position", 2, Vector3Name),
				message("velocity", 3, Vector3Name),
				message("color", 4, ColorName),
				scalar("bank_angle", 5, tDouble),
				repeated(message("trail", 6, Vector3Name))),
			messageType(PredatorName,
				message("position", 1, Vector3Name),
				message("velocity", 2, Vector3Name),
				repeated(message("trail", 3, Vector3Name)),
				scalar("enabled", 4, tBool)),
			messageType(ObstacleName,
				message("position", 1, Vector3Name),
				scalar("radius", 2, tDouble)),
			messageType(BehaviorSettingName,
				scalar("behavior", 1, tString),
				scalar("enabled", 2, tBool),
				scalar("weight", 3, tDouble)),
			messageType(WorldSnapshotName,
				scalar("run_id", 1, tString),
				scalar("tick", 2, tUint64),
				scalar("half_extent", 3, tDouble),
				repeated(message("boids", 4, BoidName)),
				message("predator", 5, PredatorName),
				repeated(message("obstacles", 6, ObstacleName)),
				message("goal", 7, Vector3Name),
				scalar("paused", 8, tBool),
				scalar("show_trails", 9, tBool),
				scalar("show_banking", 10, tBool),
				repeated(message("behaviors", 11, BehaviorSettingName)),
				scalar("digest", 12, tUint64)),
			messageType(TickName,
				scalar("delta_time", 1, tInt64)),
			messageType(GetSnapshotName),
			messageType(CommandName,
				scalar("op", 1, tString),
				scalar("behavior", 2, tString),
				scalar("enabled", 3, tBool),
				scalar("weight", 4, tDouble),
				scalar("count", 5, tInt32)),
		},
	}
}

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("pb: invalid %s descriptor: %v", Package, err))
	}
	File = fd
}

// Descriptor returns the descriptor of the flock.v1 message called name.
// It panics on an unknown name.
func Descriptor(name protoreflect.Name) protoreflect.MessageDescriptor {
	md := File.Messages().ByName(name)
	if md == nil {
		panic(fmt.Sprintf("pb: unknown message %s.%s", Package, name))
	}
	return md
}

// New returns an empty message of type name.
func New(name protoreflect.Name) *dynamicpb.Message {
	return dynamicpb.NewMessage(Descriptor(name))
}

// Name returns the short name of a message, empty for nil.
func Name(m proto.Message) protoreflect.Name {
	if m == nil {
		return ""
	}
	return m.ProtoReflect().Descriptor().Name()
}

// Is reports whether m is the flock.v1 message called name.
func Is(m proto.Message, name protoreflect.Name) bool {
	if m == nil {
		return false
	}
	return m.ProtoReflect().Descriptor().FullName() == protoreflect.FullName(Package).Append(name)
}
