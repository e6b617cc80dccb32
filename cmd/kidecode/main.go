/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command kidecode decodes a single KI frame and writes the result as
// YAML to stdout.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr/funcr"
	"github.com/kiwalk/kidecode"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dmlDir    string
		typedefs  string
		hexInput  bool
		compact   bool
		silence   bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "kidecode [file]",
		Short: "Decode a single KI protocol frame to YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ki.SetLogger(funcr.New(func(prefix, msg string) {
				fmt.Fprintln(os.Stderr, msg)
			}, funcr.Options{Verbosity: boolToVerbosity(verbose)}))

			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			raw, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			if hexInput {
				raw, err = hex.DecodeString(trimHex(raw))
				if err != nil {
					return fmt.Errorf("decoding hex input: %w", err)
				}
			}

			dml := ki.NewDMLProtocol(&ki.DMLRegistry{})
			pos := ki.NewPropertyObjectRegistry()

			if dmlDir != "" {
				reg, err := ki.LoadDMLSchemaDir(dmlDir)
				if err != nil {
					return err
				}
				dml = ki.NewDMLProtocol(reg)
			}
			if typedefs != "" {
				f, err := os.Open(typedefs)
				if err != nil {
					return err
				}
				defer f.Close()
				reg, err := ki.LoadPropertyObjectRegistry(f, typedefs)
				if err != nil {
					return err
				}
				pos = reg
			}

			dispatcher := ki.NewDispatcher(dml, pos, ki.DispatcherOptions{SilenceDecodeErrors: silence})
			rec, err := dispatcher.Decode(context.Background(), raw)
			if err != nil {
				return err
			}

			rendered := ki.Render(rec, ki.RenderOptions{Compact: compact})
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(rendered)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dmlDir, "dml-schema", "", "directory of DML service XML definitions")
	flags.StringVar(&typedefs, "typedefs", "", "path to the property object typedef JSON document")
	flags.BoolVar(&hexInput, "hex", false, "treat input as hex text rather than raw bytes")
	flags.BoolVar(&compact, "compact", false, "omit descriptions and protocol metadata from output")
	flags.BoolVar(&silence, "silence-decode-errors", false, "render failed frames as error records instead of failing")
	flags.BoolVar(&verbose, "verbose", false, "enable verbose (V(1)) logging")

	return cmd
}

func boolToVerbosity(v bool) int {
	if v {
		return 1
	}
	return 0
}

func trimHex(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			out = append(out, c)
		}
	}
	return string(out)
}
