// Command yamlfmt round-trips a YAML file through dynamic decode and
// encode, printing the re-encoded form, or a colorized diagnostic on
// failure.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-colorable"

	"github.com/corvantis/goyaml"
	"github.com/corvantis/goyaml/encoder"
)

func _main(args []string) error {
	if len(args) < 2 {
		return errors.New("yamlfmt: usage: yamlfmt file.yml")
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	elem, err := yaml.DecodeDynamic(data)
	if err != nil {
		return err
	}
	out, err := yaml.EncodeDynamic(elem, encoder.WithIndentWidth(2))
	if err != nil {
		return err
	}
	w := colorable.NewColorableStdout()
	_, err = w.Write(out)
	return err
}

func main() {
	if err := _main(os.Args); err != nil {
		fmt.Println(yaml.FormatError(err, true, true))
		os.Exit(1)
	}
}
