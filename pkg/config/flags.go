// The binary uses flags and a single config file for configuration.
// A config file is stored in .txtpb format and contains the values that can be set via flags.

package config

import (
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// skippedProtobufFlags is the list of command line flags on which the protobuf check is disabled.
var skippedProtobufFlags = []string{"print_version", "config_file"}

// protobufValueToString converts a protobuf field value to its string representation suitable for flag setting.
// Only the kinds used by the config schema are supported.
func protobufValueToString(fd protoreflect.FieldDescriptor, v protoreflect.Value) (string, error) {
	switch fd.Kind() {
	case protoreflect.Int32Kind:
		return strconv.FormatInt(v.Int(), 10), nil
	case protoreflect.StringKind:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported kind: %v", fd.Kind())
	}
}

// collectFlags collects the set leaf fields of the given protobuf message, keyed by their flag name.
// The collected flags are put inside the given `flags` variable. Nested messages are walked recursively.
func collectFlags(flags map[ /*flagName*/ string] /*flagValue*/ string, m protoreflect.Message) error {
	var err error
	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		// Lists/maps can't be mapped onto a single flag.
		if fd.IsList() || fd.IsMap() {
			err = fmt.Errorf("repeated/map not supported: %s", fd.FullName())
			return false
		}
		if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
			err = collectFlags(flags, v.Message())
			return err == nil
		}
		flagName := string(fd.Name())
		stringValue, convErr := protobufValueToString(fd, v)
		if convErr != nil {
			err = fmt.Errorf("failed to convert %s: %w", fd.FullName(), convErr)
			return false
		}
		// Check for duplicate flag entries.
		if _, alreadyExists := flags[flagName]; alreadyExists {
			err = fmt.Errorf("flag '%s' has multiple entries in txtpb config: '%s'", flagName, fd.FullName())
			return false
		}
		flags[flagName] = stringValue
		return true
	})
	return err
}

// explicitlySetFlags returns the names of the flags given on the command line; call it right after flag.Parse().
func explicitlySetFlags() map[ /*flagName*/ string]struct{} {
	explicitFlags := make(map[ /*flagName*/ string]struct{})
	flag.Visit(func(f *flag.Flag) { explicitFlags[f.Name] = struct{}{} })
	return explicitFlags
}

// setConfigFlags sets all the filled fields in the given `conf` to the global flag variables.
// Flags in `explicitFlags` keep their values, so the command line takes precedence over the config file.
func setConfigFlags(conf protoreflect.Message, explicitFlags map[ /*flagName*/ string]struct{}) error {
	configFlags := make(map[ /*flagName*/ string] /*flagValue*/ string)
	if err := collectFlags(configFlags, conf); err != nil {
		return fmt.Errorf("failed to collect flags: %w", err)
	}

	for flagName, flagValue := range configFlags {
		if _, explicit := explicitFlags[flagName]; explicit {
			continue
		}
		if setErr := flag.Set(flagName, flagValue); setErr != nil {
			return fmt.Errorf("failed to set flag %s: %w", flagName, setErr)
		}
	}
	return nil
}

// getDefinedFlags returns the set of flag names defined inside the given protobuf message schema.
func getDefinedFlags(md protoreflect.MessageDescriptor) (map[ /*flagName*/ string]struct{}, error) {
	flagSet := make(map[ /*flagName*/ string]struct{})
	var walkFields func(md protoreflect.MessageDescriptor) error
	walkFields = func(md protoreflect.MessageDescriptor) error {
		for fieldIdx := 0; fieldIdx < md.Fields().Len(); fieldIdx++ {
			fd := md.Fields().Get(fieldIdx)
			if fd.IsList() || fd.IsMap() {
				continue // Skip repeated/map fields.
			}
			if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
				if err := walkFields(fd.Message()); err != nil {
					return err
				}
				continue
			}
			flagName := string(fd.Name())
			if _, exists := flagSet[flagName]; exists {
				return fmt.Errorf("duplicate flag name '%s' in config: %s", flagName, fd.FullName())
			}
			flagSet[flagName] = struct{}{}
		}
		return nil
	}
	if err := walkFields(md); err != nil {
		return nil, err
	}
	return flagSet, nil
}

// CollectUnregisteredFlags collects all flags that haven't been registered in the protobuf config.
// An error exists in the results corresponding to each unregistered flag.
func CollectUnregisteredFlags() []error {
	definedFlags, err := getDefinedFlags(configDescriptor)
	if err != nil {
		return []error{err}
	}
	errs := make([]error, 0)
	flag.VisitAll(func(f *flag.Flag) {
		if strings.HasPrefix(f.Name, "test.") { // Skip test flags.
			return
		}
		if slices.Contains(skippedProtobufFlags, f.Name) {
			return
		}
		if _, flagHasConfigEntry := definedFlags[f.Name]; !flagHasConfigEntry {
			errs = append(errs, fmt.Errorf("flag '%s' has not been defined in protobuf config", f.Name))
		}
	})
	return errs
}
