package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/splitnet/errors"
	"github.com/spf13/cobra"
	amino "github.com/tendermint/go-amino"
)

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      interface{}
}

// TestGenCmd returns a command writing the examples into a directory, so
// that clients can test their encoders against them.
func TestGenCmd(cdc *amino.Codec, examples []Example) *cobra.Command {
	return &cobra.Command{
		Use:   "testgen [outdir]",
		Short: "Write sample json and amino encodings of transactions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outdir := "testdata"
			if len(args) > 0 {
				outdir = args[0]
			}
			return WriteExamples(cdc, examples, outdir)
		},
	}
}

// WriteExamples writes the JSON and amino binary encoding of every example
// into outdir.
func WriteExamples(cdc *amino.Codec, examples []Example, outdir string) error {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%s: %s", ex.Filename, err)
		}
		if err := ioutil.WriteFile(filepath.Join(outdir, ex.Filename+".json"), js, 0644); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}

		bin, err := cdc.MarshalBinaryBare(ex.Obj)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%s: %s", ex.Filename, err)
		}
		if err := ioutil.WriteFile(filepath.Join(outdir, ex.Filename+".bin"), bin, 0644); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return nil
}
