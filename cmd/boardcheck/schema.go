package main

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/entrhq/boardcheck/pkg/config"
	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [config|cases]",
		Short:     "Print the JSON schema of the run config or the test cases fixture",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"config", "cases"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSchema(cmd.OutOrStdout(), args[0])
		},
	}
}

// durationPattern matches the strings time.ParseDuration accepts, which is
// how the YAML config spells durations.
const durationPattern = `^(0|-?([0-9]*\.?[0-9]+(ns|us|µs|ms|s|m|h))+)$`

var durationType = reflect.TypeOf(time.Duration(0))

func mapDuration(t reflect.Type) *jsonschema.Schema {
	if t != durationType {
		return nil
	}
	return &jsonschema.Schema{
		Type:     "string",
		Pattern:  durationPattern,
		Examples: []interface{}{"3s", "1m30s"},
	}
}

func writeSchema(w io.Writer, kind string) error {
	var schema *jsonschema.Schema
	switch kind {
	case "config":
		r := &jsonschema.Reflector{
			AllowAdditionalProperties: false,
			ExpandedStruct:            true,
			FieldNameTag:              "yaml",
			Mapper:                    mapDuration,
		}
		schema = r.Reflect(&config.Config{})
		schema.Title = "boardcheck run configuration"
		// every field has a default
		schema.Required = nil
	case "cases":
		r := &jsonschema.Reflector{}
		schema = r.Reflect([]types.TestCase{})
		schema.Title = "boardcheck test cases"
	default:
		return fatal(fmt.Errorf("unknown schema %q (want config or cases)", kind))
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fatal(fmt.Errorf("failed to marshal schema: %w", err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
