// picturepalette extracts the dominant colours of a picture and derives a
// display palette from them.
package main

import "github.com/jmylchreest/picturepalette/internal/cli"

func main() {
	cli.Execute()
}
