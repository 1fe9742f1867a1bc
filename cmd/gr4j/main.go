/*
Copyright © 2019 the GR4J authors.
This file is part of GR4J.

GR4J is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GR4J is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GR4J.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command gr4j is a command-line interface for the GR4J rainfall-runoff model.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spatialmodel/gr4j/gr4jutil"
)

func main() {
	var commands int
	for _, arg := range os.Args { // Count the number of supplied commands.
		if !strings.HasPrefix(arg, "-") {
			commands++
		}
	}
	if commands == 1 { // If only one command was supplied, start the GUI server.
		gr4jutil.StartWebServer()
	}

	// If more than one command was supplied, run in CLI mode.
	if err := gr4jutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
